package orchestrators

import (
	"context"
	"log/slog"
	"time"

	storerotation "gameclub/internal/adapters/storage/rotation"
	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/game"
)

// RotationStoreForFinish defines the store interface needed by FinishGame.
type RotationStoreForFinish interface {
	FinishEntry(ctx context.Context, clubID, entryID string, tr game.Transition) (storerotation.FinishResult, error)
}

// FinishGameInput carries input for the orchestrator.
type FinishGameInput struct {
	ClubID  string
	IsOwner bool
	EntryID string
}

// FinishGameResult reports the finished entry and whether the rotation closed.
type FinishGameResult struct {
	RotationID        string
	GameID            string
	RotationCompleted bool
}

// FinishGameDeps holds dependencies for FinishGame.
type FinishGameDeps struct {
	RotationStore RotationStoreForFinish
	Now           func() time.Time
}

// ExecuteFinishGame marks the playing entry played on both the rotation and
// the queue side, and completes the rotation when it was the last one.
// PRE: Caller is the club owner
// POST: NotFound for entries outside the club, InvalidState unless playing
func ExecuteFinishGame(ctx context.Context, input FinishGameInput, deps FinishGameDeps) (FinishGameResult, error) {
	if !input.IsOwner {
		return FinishGameResult{}, faults.New(faults.KindForbidden, "only the club owner can finish games")
	}
	if input.EntryID == "" {
		return FinishGameResult{}, faults.New(faults.KindInvalidArgument, "rotation game ID is required")
	}

	result, err := deps.RotationStore.FinishEntry(ctx, input.ClubID, input.EntryID, game.FinishPlaying(deps.Now()))
	if err != nil {
		return FinishGameResult{}, err
	}

	slog.Info("rotation_event", "event", "game_finished",
		"club_id", input.ClubID, "rotation_id", result.RotationID,
		"entry_id", input.EntryID, "rotation_completed", result.RotationCompleted)

	return FinishGameResult{
		RotationID:        result.RotationID,
		GameID:            result.GameID,
		RotationCompleted: result.RotationCompleted,
	}, nil
}
