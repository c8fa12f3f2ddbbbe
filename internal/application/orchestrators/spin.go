package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"gameclub/internal/adapters/storage/rotation"
	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/game"

	rotationdomain "gameclub/internal/domain/rotation"
)

// RotationStoreForSpin defines the store interface needed by Spin.
type RotationStoreForSpin interface {
	GetActiveByClub(ctx context.Context, clubID string) (rotationdomain.Rotation, error)
	ListUnplayedEntries(ctx context.Context, rotationID string) ([]rotation.EntryDetail, error)
	MarkPlaying(ctx context.Context, rotationID, entryID string, tr game.Transition) error
}

// SpinInput carries input for the orchestrator.
type SpinInput struct {
	ClubID  string
	IsOwner bool
}

// SpinResult reports the selected game plus the odds it was picked under.
type SpinResult struct {
	EntryID       string
	GameID        string
	IGDBID        int64
	Title         string
	Username      string
	TotalOptions  int
	SelectedIndex int
}

// SpinDeps holds dependencies for Spin.
type SpinDeps struct {
	RotationStore RotationStoreForSpin
	// Rand returns a uniform value in [0, n). Injected so tests control the wheel.
	Rand func(n int) int
	Now  func() time.Time
}

// ExecuteSpin picks the next game uniformly at random from the active
// rotation's unplayed entries and marks it playing. The candidate pool is read
// outside the transaction; the store re-checks that nothing is playing inside
// it, so a concurrent spin loses with Conflict rather than producing a second
// playing entry.
// PRE: Caller is the club owner
// POST: The selected entry and its game are playing with the same start stamp
func ExecuteSpin(ctx context.Context, input SpinInput, deps SpinDeps) (SpinResult, error) {
	if !input.IsOwner {
		return SpinResult{}, faults.New(faults.KindForbidden, "only the club owner can spin the wheel")
	}

	active, err := deps.RotationStore.GetActiveByClub(ctx, input.ClubID)
	if err != nil {
		return SpinResult{}, err
	}

	candidates, err := deps.RotationStore.ListUnplayedEntries(ctx, active.ID)
	if err != nil {
		return SpinResult{}, err
	}
	if len(candidates) == 0 {
		return SpinResult{}, faults.New(faults.KindNotFound, "no unplayed games in current rotation")
	}

	index := deps.Rand(len(candidates))
	selected := candidates[index]

	if err := deps.RotationStore.MarkPlaying(ctx, active.ID, selected.EntryID, game.StartPlaying(deps.Now())); err != nil {
		return SpinResult{}, err
	}

	slog.Info("rotation_event", "event", "wheel_spun",
		"club_id", input.ClubID, "rotation_id", active.ID,
		"entry_id", selected.EntryID, "title", selected.Title,
		"options", len(candidates), "index", index)

	return SpinResult{
		EntryID:       selected.EntryID,
		GameID:        selected.GameID,
		IGDBID:        selected.IGDBID,
		Title:         selected.Title,
		Username:      selected.Username,
		TotalOptions:  len(candidates),
		SelectedIndex: index,
	}, nil
}
