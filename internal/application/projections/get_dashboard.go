package projections

import (
	"context"
	"time"

	"gameclub/internal/domain/faults"
)

// RecentFinishLimit bounds the dashboard activity feed.
const RecentFinishLimit = 5

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	ClubID string
}

// PlayingView is the club's currently playing game.
type PlayingView struct {
	GameID      string    `json:"gameId"`
	IGDBID      int64     `json:"igdbId"`
	Title       string    `json:"title"`
	Username    string    `json:"username"`
	DateStarted time.Time `json:"dateStarted,omitzero"`
}

// FinishView is one recently finished game.
type FinishView struct {
	IGDBID       int64     `json:"igdbId"`
	Title        string    `json:"title"`
	Username     string    `json:"username"`
	DateFinished time.Time `json:"dateFinished"`
}

// ActiveRotationView is the active rotation with its entries.
type ActiveRotationView struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	StartedAt time.Time          `json:"startedAt,omitzero"`
	Games     []RotationGameView `json:"games"`
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	TotalMembers     int                 `json:"totalMembers"`
	TotalGames       int                 `json:"totalGames"`
	PlayingGames     int                 `json:"playingGames"`
	CompletedGames   int                 `json:"completedGames"`
	ActiveRotation   *ActiveRotationView `json:"activeRotation"`
	CurrentlyPlaying *PlayingView        `json:"currentlyPlaying"`
	RecentFinishes   []FinishView        `json:"recentFinishes"`
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	GameStore     DashboardGameStore
	RotationStore RotationViewStore
}

// GetDashboard aggregates the club view: totals, the active rotation with its
// wheel entries, whatever is playing right now, and the latest finishes.
func GetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	stats, err := deps.GameStore.ClubStats(ctx, query.ClubID)
	if err != nil {
		return DashboardResult{}, err
	}
	result := DashboardResult{
		TotalMembers:   stats.TotalMembers,
		TotalGames:     stats.TotalGames,
		PlayingGames:   stats.PlayingGames,
		CompletedGames: stats.CompletedGames,
	}

	active, err := deps.RotationStore.GetActiveByClub(ctx, query.ClubID)
	switch {
	case err == nil:
		entries, err := deps.RotationStore.ListEntries(ctx, active.ID)
		if err != nil {
			return DashboardResult{}, err
		}
		result.ActiveRotation = &ActiveRotationView{
			ID:        active.ID,
			Name:      active.Name,
			StartedAt: active.StartedAt,
			Games:     toRotationGameViews(entries),
		}
	case faults.NotFound(err):
		// No active rotation is a normal dashboard state.
	default:
		return DashboardResult{}, err
	}

	playing, err := deps.GameStore.CurrentlyPlaying(ctx, query.ClubID)
	switch {
	case err == nil:
		result.CurrentlyPlaying = &PlayingView{
			GameID:      playing.GameID,
			IGDBID:      playing.IGDBID,
			Title:       playing.Title,
			Username:    playing.Username,
			DateStarted: playing.DateStarted,
		}
	case faults.NotFound(err):
	default:
		return DashboardResult{}, err
	}

	finished, err := deps.GameStore.RecentlyFinished(ctx, query.ClubID, RecentFinishLimit)
	if err != nil {
		return DashboardResult{}, err
	}
	for _, f := range finished {
		result.RecentFinishes = append(result.RecentFinishes, FinishView{
			IGDBID:       f.IGDBID,
			Title:        f.Title,
			Username:     f.Username,
			DateFinished: f.DateFinished,
		})
	}

	return result, nil
}
