package orchestrators

import (
	"context"
	"log/slog"

	"gameclub/internal/domain/faults"
)

// GameStoreForRemove defines the store interface needed by RemoveGame.
type GameStoreForRemove interface {
	RemoveAndRenumber(ctx context.Context, memberID, id string) error
}

// RemoveGameInput carries input for the orchestrator.
type RemoveGameInput struct {
	MemberID string
	GameID   string
}

// RemoveGameDeps holds dependencies for RemoveGame.
type RemoveGameDeps struct {
	GameStore GameStoreForRemove
}

// ExecuteRemoveGame removes a game from the caller's queue and closes the
// position gap. Games belonging to other members are NotFound, never Forbidden:
// the caller does not learn whether the ID exists.
func ExecuteRemoveGame(ctx context.Context, input RemoveGameInput, deps RemoveGameDeps) error {
	if input.GameID == "" {
		return faults.New(faults.KindInvalidArgument, "game ID is required")
	}
	if err := deps.GameStore.RemoveAndRenumber(ctx, input.MemberID, input.GameID); err != nil {
		return err
	}

	slog.Info("queue_event", "event", "game_removed",
		"member_id", input.MemberID, "game_id", input.GameID)
	return nil
}
