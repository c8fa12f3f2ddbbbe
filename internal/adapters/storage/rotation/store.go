package rotation

import (
	"context"
	"time"

	gamedomain "gameclub/internal/domain/game"
	domain "gameclub/internal/domain/rotation"
)

// Store persists Rotation and Entry state. Every multi-row operation that
// mirrors status between rotation_game and game runs in one transaction.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Rotation, error)
	// GetScoped retrieves a rotation only if it belongs to the given club.
	GetScoped(ctx context.Context, clubID, id string) (domain.Rotation, error)
	GetActiveByClub(ctx context.Context, clubID string) (domain.Rotation, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Rotation, error)
	// BuildSnapshot creates a planned rotation from each member's
	// head-of-queue game and returns the number of entries captured.
	BuildSnapshot(ctx context.Context, value domain.Rotation, newEntryID func() string) (int, error)
	// Activate force-completes the club's current active rotation and
	// promotes the target, both in one transaction.
	Activate(ctx context.Context, clubID, rotationID string, now time.Time) error
	// DeleteCascade reverts playing games to the queue, removes all entries,
	// then removes the rotation itself.
	DeleteCascade(ctx context.Context, clubID, rotationID string) error
	ListEntries(ctx context.Context, rotationID string) ([]EntryDetail, error)
	ListUnplayedEntries(ctx context.Context, rotationID string) ([]EntryDetail, error)
	CountEntries(ctx context.Context, rotationID string) (int, error)
	// MarkPlaying applies the playing transition to an entry and its game.
	MarkPlaying(ctx context.Context, rotationID, entryID string, tr gamedomain.Transition) error
	// FinishEntry applies the played transition and auto-completes the
	// rotation when it was the last unfinished entry. Entries outside the
	// club's rotations are NotFound.
	FinishEntry(ctx context.Context, clubID, entryID string, tr gamedomain.Transition) (FinishResult, error)
}

// EntryDetail is a rotation entry joined with its game and owner.
type EntryDetail struct {
	EntryID        string
	GameID         string
	IGDBID         int64
	Title          string
	Username       string
	RotationStatus gamedomain.Status
	GameStatus     gamedomain.Status
	PlayOrder      int
	DateStarted    time.Time
	DateFinished   time.Time
}

// FinishResult reports what FinishEntry did.
type FinishResult struct {
	RotationID        string
	GameID            string
	RotationCompleted bool
}
