package projections

import (
	"context"
	"time"

	storeclub "gameclub/internal/adapters/storage/club"
	storegame "gameclub/internal/adapters/storage/game"
	storemember "gameclub/internal/adapters/storage/member"
	storerotation "gameclub/internal/adapters/storage/rotation"
	domainmember "gameclub/internal/domain/member"
	domainrotation "gameclub/internal/domain/rotation"

	domaingame "gameclub/internal/domain/game"
)

// ClubDirectoryStore is the club store surface for the public directory.
type ClubDirectoryStore interface {
	ListDirectory(ctx context.Context) ([]storeclub.DirectoryEntry, error)
}

// MemberViewStore is the member store surface for read-side queries.
type MemberViewStore interface {
	GetByID(ctx context.Context, id string) (domainmember.Member, error)
	ListWithCounts(ctx context.Context, clubID string) ([]storemember.WithCounts, error)
}

// QueueGameStore is the game store surface for queue views.
type QueueGameStore interface {
	ListByMember(ctx context.Context, memberID string) ([]domaingame.Game, error)
}

// DashboardGameStore is the game store surface for club-wide aggregates.
type DashboardGameStore interface {
	ClubStats(ctx context.Context, clubID string) (storegame.Stats, error)
	CurrentlyPlaying(ctx context.Context, clubID string) (storegame.PlayingGame, error)
	RecentlyFinished(ctx context.Context, clubID string, limit int) ([]storegame.FinishedGame, error)
}

// RotationViewStore is the rotation store surface for history views.
type RotationViewStore interface {
	GetScoped(ctx context.Context, clubID, id string) (domainrotation.Rotation, error)
	GetActiveByClub(ctx context.Context, clubID string) (domainrotation.Rotation, error)
	ListByClub(ctx context.Context, clubID string) ([]domainrotation.Rotation, error)
	ListEntries(ctx context.Context, rotationID string) ([]storerotation.EntryDetail, error)
	CountEntries(ctx context.Context, rotationID string) (int, error)
}

// RotationGameView is one rotation entry prepared for rendering.
type RotationGameView struct {
	EntryID        string    `json:"id"`
	GameID         string    `json:"gameId"`
	IGDBID         int64     `json:"igdbId"`
	Title          string    `json:"title"`
	Username       string    `json:"username"`
	RotationStatus string    `json:"rotationStatus"`
	PlayOrder      int       `json:"playOrder"`
	DateStarted    time.Time `json:"dateStarted,omitzero"`
	DateFinished   time.Time `json:"dateFinished,omitzero"`
}

func toRotationGameViews(entries []storerotation.EntryDetail) []RotationGameView {
	views := make([]RotationGameView, 0, len(entries))
	for _, e := range entries {
		views = append(views, RotationGameView{
			EntryID:        e.EntryID,
			GameID:         e.GameID,
			IGDBID:         e.IGDBID,
			Title:          e.Title,
			Username:       e.Username,
			RotationStatus: string(e.RotationStatus),
			PlayOrder:      e.PlayOrder,
			DateStarted:    e.DateStarted,
			DateFinished:   e.DateFinished,
		})
	}
	return views
}
