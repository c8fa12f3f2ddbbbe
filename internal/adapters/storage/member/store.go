package member

import (
	"context"

	domain "gameclub/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	// Create inserts a new member. The first member of a club is promoted to
	// owner and recorded as club.owner_id in the same transaction.
	Create(ctx context.Context, value domain.Member) (domain.Member, error)
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByUsername(ctx context.Context, clubID, username string) (domain.Member, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Member, error)
	ListWithCounts(ctx context.Context, clubID string) ([]WithCounts, error)
}

// WithCounts is a member plus per-status game totals for the roster view.
type WithCounts struct {
	domain.Member
	TotalGames    int
	QueuedGames   int
	PlayingGames  int
	CompletedGames int
}
