package club

import (
	"context"

	domain "gameclub/internal/domain/club"
)

// Store persists Club state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Club, error)
	GetByName(ctx context.Context, name string) (domain.Club, error)
	Save(ctx context.Context, value domain.Club) error
	ListDirectory(ctx context.Context) ([]DirectoryEntry, error)
}

// DirectoryEntry is one row of the public club directory: a club plus
// aggregate counts over its members and their queues.
type DirectoryEntry struct {
	ID                string
	Name              string
	Description       string
	CreatedAt         string
	MemberCount       int
	TotalGames        int
	CompletedGames    int
	HasActiveRotation bool
}
