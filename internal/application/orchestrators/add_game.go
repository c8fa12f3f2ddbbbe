package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/game"
)

// GameStoreForAdd defines the store interface needed by AddGame.
type GameStoreForAdd interface {
	Append(ctx context.Context, g game.Game) (game.Game, error)
}

// AddGameInput carries input for the orchestrator.
type AddGameInput struct {
	MemberID string
	IGDBID   int64
	Title    string
}

// AddGameDeps holds dependencies for AddGame.
type AddGameDeps struct {
	GameStore  GameStoreForAdd
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAddGame appends a game to the caller's queue.
// POST: Game lands at the tail of the queue with status unplayed; adding a
// title already in the queue fails with Conflict
func ExecuteAddGame(ctx context.Context, input AddGameInput, deps AddGameDeps) (game.Game, error) {
	g := game.Game{
		ID:        deps.GenerateID(),
		MemberID:  input.MemberID,
		IGDBID:    input.IGDBID,
		Title:     strings.TrimSpace(input.Title),
		Status:    game.StatusUnplayed,
		DateAdded: deps.Now(),
	}
	// The store assigns the real position; 1 satisfies validation.
	g.PositionInQueue = 1
	if err := g.Validate(); err != nil {
		return game.Game{}, faults.Wrap(faults.KindInvalidArgument, err)
	}

	created, err := deps.GameStore.Append(ctx, g)
	if err != nil {
		return game.Game{}, err
	}

	slog.Info("queue_event", "event", "game_added",
		"member_id", created.MemberID, "game_id", created.ID,
		"igdb_id", created.IGDBID, "position", created.PositionInQueue)
	return created, nil
}
