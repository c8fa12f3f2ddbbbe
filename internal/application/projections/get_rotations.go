package projections

import (
	"context"
	"time"
)

// GetRotationsQuery carries input for the rotation history projection.
type GetRotationsQuery struct {
	ClubID string
}

// RotationSummary is one rotation with its entry count.
type RotationSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	GameCount   int       `json:"gameCount"`
	CreatedAt   time.Time `json:"createdAt"`
	StartedAt   time.Time `json:"startedAt,omitzero"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// GetRotationsDeps holds dependencies for the rotation projections.
type GetRotationsDeps struct {
	RotationStore RotationViewStore
}

// GetRotations returns the club's rotations, newest first, with entry counts.
func GetRotations(ctx context.Context, query GetRotationsQuery, deps GetRotationsDeps) ([]RotationSummary, error) {
	rotations, err := deps.RotationStore.ListByClub(ctx, query.ClubID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RotationSummary, 0, len(rotations))
	for _, r := range rotations {
		count, err := deps.RotationStore.CountEntries(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, RotationSummary{
			ID:          r.ID,
			Name:        r.Name,
			Status:      r.Status,
			GameCount:   count,
			CreatedAt:   r.CreatedAt,
			StartedAt:   r.StartedAt,
			CompletedAt: r.CompletedAt,
		})
	}
	return summaries, nil
}

// GetRotationGamesQuery carries input for the per-rotation entries projection.
type GetRotationGamesQuery struct {
	ClubID     string
	RotationID string
}

// GetRotationGames returns a rotation's entries in play order.
// POST: Rotations outside the caller's club are NotFound
func GetRotationGames(ctx context.Context, query GetRotationGamesQuery, deps GetRotationsDeps) ([]RotationGameView, error) {
	if _, err := deps.RotationStore.GetScoped(ctx, query.ClubID, query.RotationID); err != nil {
		return nil, err
	}
	entries, err := deps.RotationStore.ListEntries(ctx, query.RotationID)
	if err != nil {
		return nil, err
	}
	return toRotationGameViews(entries), nil
}
