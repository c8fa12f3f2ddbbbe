package rotation

import (
	"errors"
	"strings"
	"time"

	"gameclub/internal/domain/game"
)

// Rotation status constants.
const (
	StatusPlanned   = "planned"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// MaxNameLength bounds user-chosen rotation names.
const MaxNameLength = 100

// Domain errors.
var (
	ErrEmptyClubID      = errors.New("club ID cannot be empty")
	ErrEmptyName        = errors.New("rotation name cannot be empty")
	ErrNameTooLong      = errors.New("rotation name cannot exceed 100 characters")
	ErrInvalidStatus    = errors.New("invalid rotation status")
	ErrAlreadyCompleted = errors.New("rotation is already completed")
	ErrCompletedLocked  = errors.New("completed rotations cannot be deleted")
	ErrInvalidPlayOrder = errors.New("play order must be at least 1")
)

// Rotation is one pass through the club: a snapshot of each member's
// head-of-queue game, played in random order until every entry is done.
// INVARIANT: At most one rotation per club is active at a time.
// INVARIANT: Completed rotations are immutable history.
type Rotation struct {
	ID          string
	ClubID      string
	Name        string
	Status      string // planned, active, completed
	CreatedAt   time.Time
	StartedAt   time.Time // zero until activated
	CompletedAt time.Time // zero until completed
}

// Validate checks the rotation's invariants.
// POST: returns nil if valid, error describing the first violation otherwise
func (r *Rotation) Validate() error {
	if r.ClubID == "" {
		return ErrEmptyClubID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if len(r.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if r.Status != StatusPlanned && r.Status != StatusActive && r.Status != StatusCompleted {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive reports whether the rotation is the club's current one.
func (r *Rotation) IsActive() bool {
	return r.Status == StatusActive
}

// Activate promotes the rotation to active.
// PRE: rotation is not completed
// POST: Status becomes active, StartedAt is set
func (r *Rotation) Activate(now time.Time) error {
	if r.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	r.Status = StatusActive
	r.StartedAt = now
	return nil
}

// Complete transitions the rotation to completed. Reached either by the
// owner activating a successor or by the last entry being finished.
// POST: Status becomes completed, CompletedAt is set
func (r *Rotation) Complete(now time.Time) {
	r.Status = StatusCompleted
	r.CompletedAt = now
}

// CanDelete reports whether deletion is allowed. Completed rotations are
// preserved as history.
func (r *Rotation) CanDelete() error {
	if r.Status == StatusCompleted {
		return ErrCompletedLocked
	}
	return nil
}

// Entry is a snapshot row tying one member's head-of-queue game into a
// rotation. PlayOrder is assigned once at build time and never changes;
// later queue reordering by the member does not touch existing entries.
// INVARIANT: At most one entry per rotation has RotationStatus playing.
type Entry struct {
	ID             string
	RotationID     string
	GameID         string
	RotationStatus game.Status // kept in lockstep with the game's own status
	PlayOrder      int
	DateStarted    time.Time
	DateFinished   time.Time
}

// Validate checks the entry's invariants.
func (e *Entry) Validate() error {
	if e.RotationID == "" || e.GameID == "" {
		return errors.New("entry must reference a rotation and a game")
	}
	if !e.RotationStatus.Valid() {
		return game.ErrInvalidStatus
	}
	if e.PlayOrder < 1 {
		return ErrInvalidPlayOrder
	}
	return nil
}

// IsPlaying reports whether this entry is the one currently being played.
func (e *Entry) IsPlaying() bool {
	return e.RotationStatus == game.StatusPlaying
}
