package game

import (
	"errors"
	"strings"
	"time"
)

// Status of a game in its owner's personal queue.
type Status string

// Game status constants.
const (
	StatusUnplayed Status = "unplayed"
	StatusPlaying  Status = "playing"
	StatusPlayed   Status = "played"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUnplayed, StatusPlaying, StatusPlayed:
		return true
	}
	return false
}

// MaxTitleLength bounds catalog titles stored locally.
const MaxTitleLength = 200

// Domain errors.
var (
	ErrEmptyMemberID    = errors.New("member ID cannot be empty")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title cannot exceed 200 characters")
	ErrInvalidCatalogID = errors.New("catalog ID must be positive")
	ErrInvalidStatus    = errors.New("invalid game status")
	ErrInvalidPosition  = errors.New("queue position must be at least 1")
	ErrInvalidDirection = errors.New("direction must be 'up' or 'down'")
	ErrNotUnplayed      = errors.New("game is not unplayed")
	ErrNotPlaying       = errors.New("game is not playing")
)

// Game is one entry in a member's personal queue, not a global catalog item.
// The catalog identity (IGDBID) plus the title are the only catalog data
// persisted; covers and release years are re-resolved at read time.
// INVARIANT: PositionInQueue values for one member form a gapless range 1..N.
// INVARIANT: At most one game per member is playing at a time (procedural).
type Game struct {
	ID              string
	MemberID        string
	IGDBID          int64
	Title           string
	Status          Status
	PositionInQueue int
	DateAdded       time.Time
	DateStarted     time.Time // zero until a spin selects the game
	DateFinished    time.Time // zero until the game is finished
}

// Validate checks the game's invariants.
// POST: returns nil if valid, error describing the first violation otherwise
func (g *Game) Validate() error {
	if g.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if len(g.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if g.IGDBID <= 0 {
		return ErrInvalidCatalogID
	}
	if !g.Status.Valid() {
		return ErrInvalidStatus
	}
	if g.PositionInQueue < 1 {
		return ErrInvalidPosition
	}
	return nil
}

// Transition is a paired status change. Rotation events never touch a game row
// alone: the same Transition is applied to the game and its rotation entry
// inside one transaction, which keeps the two denormalized status columns
// consistent by construction.
type Transition struct {
	To Status
	At time.Time // stamped into date_started or date_finished; zero clears
}

// StartPlaying returns the transition applied when a spin selects a game.
func StartPlaying(at time.Time) Transition {
	return Transition{To: StatusPlaying, At: at}
}

// FinishPlaying returns the transition applied when the playing game is finished.
func FinishPlaying(at time.Time) Transition {
	return Transition{To: StatusPlayed, At: at}
}

// ReturnToQueue returns the transition applied when an active rotation is
// deleted: the game goes back to unplayed and its start stamp is cleared.
func ReturnToQueue() Transition {
	return Transition{To: StatusUnplayed}
}

// Direction of an adjacent queue swap.
type Direction string

// Reorder directions.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a raw direction value.
// POST: returns the direction or ErrInvalidDirection
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	}
	return "", ErrInvalidDirection
}

// Offset returns the neighbor offset for the direction: -1 for up, +1 for down.
func (d Direction) Offset() int {
	if d == DirectionUp {
		return -1
	}
	return 1
}
