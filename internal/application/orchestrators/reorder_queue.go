package orchestrators

import (
	"context"
	"log/slog"

	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/game"
)

// GameStoreForReorder defines the store interface needed by ReorderGame.
type GameStoreForReorder interface {
	SwapWithNeighbor(ctx context.Context, memberID, id string, dir game.Direction) error
}

// ReorderGameInput carries input for the orchestrator.
type ReorderGameInput struct {
	MemberID  string
	GameID    string
	Direction string
}

// ReorderGameDeps holds dependencies for ReorderGame.
type ReorderGameDeps struct {
	GameStore GameStoreForReorder
}

// ExecuteReorderGame moves a game one slot up or down in the caller's queue.
// POST: Adjacent positions swapped; at the head or tail the queue is
// unchanged and InvalidState is returned
func ExecuteReorderGame(ctx context.Context, input ReorderGameInput, deps ReorderGameDeps) error {
	if input.GameID == "" {
		return faults.New(faults.KindInvalidArgument, "game ID is required")
	}
	dir, err := game.ParseDirection(input.Direction)
	if err != nil {
		return faults.Wrap(faults.KindInvalidArgument, err)
	}

	if err := deps.GameStore.SwapWithNeighbor(ctx, input.MemberID, input.GameID, dir); err != nil {
		return err
	}

	slog.Info("queue_event", "event", "game_reordered",
		"member_id", input.MemberID, "game_id", input.GameID, "direction", string(dir))
	return nil
}
