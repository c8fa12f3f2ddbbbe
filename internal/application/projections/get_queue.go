package projections

import (
	"context"
	"log/slog"
	"time"

	"gameclub/internal/adapters/catalog"
	"gameclub/internal/domain/faults"
)

// GetQueueQuery carries input for the queue projection. TargetMemberID may be
// another member of the caller's club; members can browse each other's queues.
type GetQueueQuery struct {
	ClubID         string
	TargetMemberID string
}

// QueueItem is one game of a member's queue with catalog data re-resolved.
type QueueItem struct {
	ID           string    `json:"id"`
	IGDBID       int64     `json:"igdbId"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Position     int       `json:"positionInQueue"`
	DateAdded    time.Time `json:"dateAdded"`
	DateStarted  time.Time `json:"dateStarted,omitzero"`
	DateFinished time.Time `json:"dateFinished,omitzero"`
	CoverURL     string    `json:"coverUrl,omitempty"`
	ReleaseYear  int       `json:"releaseYear,omitempty"`
}

// QueueResult carries the output of the queue projection.
type QueueResult struct {
	MemberID string      `json:"memberId"`
	Username string      `json:"username"`
	Games    []QueueItem `json:"games"`
}

// GetQueueDeps holds dependencies for the queue projection.
type GetQueueDeps struct {
	MemberStore MemberViewStore
	GameStore   QueueGameStore
	Catalog     catalog.Client
}

// GetQueue returns a member's queue in position order. Covers and release
// years come from the catalog at read time; a catalog failure degrades to
// bare titles rather than failing the whole view.
// POST: Members outside the caller's club are NotFound
func GetQueue(ctx context.Context, query GetQueueQuery, deps GetQueueDeps) (QueueResult, error) {
	target, err := deps.MemberStore.GetByID(ctx, query.TargetMemberID)
	if err != nil {
		return QueueResult{}, err
	}
	if target.ClubID != query.ClubID {
		return QueueResult{}, faults.New(faults.KindNotFound, "member not found")
	}

	games, err := deps.GameStore.ListByMember(ctx, target.ID)
	if err != nil {
		return QueueResult{}, err
	}

	items := make([]QueueItem, 0, len(games))
	for _, g := range games {
		item := QueueItem{
			ID:           g.ID,
			IGDBID:       g.IGDBID,
			Title:        g.Title,
			Status:       string(g.Status),
			Position:     g.PositionInQueue,
			DateAdded:    g.DateAdded,
			DateStarted:  g.DateStarted,
			DateFinished: g.DateFinished,
		}
		entry, ok, err := deps.Catalog.GetByID(ctx, g.IGDBID)
		if err != nil {
			slog.Warn("catalog_event", "event", "cover_lookup_failed", "igdb_id", g.IGDBID, "error", err)
		} else if ok {
			item.CoverURL = entry.CoverURL
			item.ReleaseYear = entry.ReleaseYear
		}
		items = append(items, item)
	}

	return QueueResult{
		MemberID: target.ID,
		Username: target.Username,
		Games:    items,
	}, nil
}
