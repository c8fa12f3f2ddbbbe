package game

import (
	"context"
	"time"

	domain "gameclub/internal/domain/game"
)

// Store persists Game state and maintains the dense per-member queue ordering.
type Store interface {
	// Append inserts a game at the tail of the member's queue.
	Append(ctx context.Context, value domain.Game) (domain.Game, error)
	GetByID(ctx context.Context, id string) (domain.Game, error)
	// GetOwned retrieves a game only if it belongs to the given member.
	GetOwned(ctx context.Context, memberID, id string) (domain.Game, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.Game, error)
	// RemoveAndRenumber deletes an unplayed game and closes the position gap.
	RemoveAndRenumber(ctx context.Context, memberID, id string) error
	// SwapWithNeighbor swaps a game with its adjacent queue neighbor.
	SwapWithNeighbor(ctx context.Context, memberID, id string, dir domain.Direction) error
	CurrentlyPlaying(ctx context.Context, clubID string) (PlayingGame, error)
	RecentlyFinished(ctx context.Context, clubID string, limit int) ([]FinishedGame, error)
	ClubStats(ctx context.Context, clubID string) (Stats, error)
}

// PlayingGame is the club's currently playing game with its owner's name.
type PlayingGame struct {
	GameID      string
	IGDBID      int64
	Title       string
	Username    string
	DateStarted time.Time
}

// FinishedGame is a recently finished game for the activity feed.
type FinishedGame struct {
	IGDBID       int64
	Title        string
	Username     string
	DateFinished time.Time
}

// Stats aggregates club-wide totals for the dashboard.
type Stats struct {
	TotalMembers   int
	TotalGames     int
	PlayingGames   int
	CompletedGames int
}
