package projections

import (
	"context"
	"time"
)

// GetMemberListQuery carries input for the roster projection.
type GetMemberListQuery struct {
	ClubID string
}

// MemberListEntry is one member of the roster with per-status game totals.
// Password material never crosses this boundary.
type MemberListEntry struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	IsOwner        bool      `json:"isOwner"`
	JoinedAt       time.Time `json:"joinedAt"`
	TotalGames     int       `json:"totalGames"`
	QueuedGames    int       `json:"queuedGames"`
	PlayingGames   int       `json:"playingGames"`
	CompletedGames int       `json:"completedGames"`
}

// GetMemberListDeps holds dependencies for the roster projection.
type GetMemberListDeps struct {
	MemberStore MemberViewStore
}

// GetMemberList returns the club roster, owner first.
func GetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) ([]MemberListEntry, error) {
	roster, err := deps.MemberStore.ListWithCounts(ctx, query.ClubID)
	if err != nil {
		return nil, err
	}

	entries := make([]MemberListEntry, 0, len(roster))
	for _, m := range roster {
		entries = append(entries, MemberListEntry{
			ID:             m.ID,
			Username:       m.Username,
			IsOwner:        m.IsOwner,
			JoinedAt:       m.CreatedAt,
			TotalGames:     m.TotalGames,
			QueuedGames:    m.QueuedGames,
			PlayingGames:   m.PlayingGames,
			CompletedGames: m.CompletedGames,
		})
	}
	return entries, nil
}
