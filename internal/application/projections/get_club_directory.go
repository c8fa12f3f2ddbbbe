package projections

import "context"

// ClubDirectoryView is one club of the public directory.
type ClubDirectoryView struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	CreatedAt         string `json:"createdAt"`
	MemberCount       int    `json:"memberCount"`
	TotalGames        int    `json:"totalGames"`
	CompletedGames    int    `json:"completedGames"`
	HasActiveRotation bool   `json:"hasActiveRotation"`
}

// GetClubDirectoryDeps holds dependencies for the directory projection.
type GetClubDirectoryDeps struct {
	ClubStore ClubDirectoryStore
}

// GetClubDirectory returns the public club directory. No authentication is
// required for this view, so it carries no passcode material.
func GetClubDirectory(ctx context.Context, deps GetClubDirectoryDeps) ([]ClubDirectoryView, error) {
	entries, err := deps.ClubStore.ListDirectory(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ClubDirectoryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, ClubDirectoryView{
			ID:                e.ID,
			Name:              e.Name,
			Description:       e.Description,
			CreatedAt:         e.CreatedAt,
			MemberCount:       e.MemberCount,
			TotalGames:        e.TotalGames,
			CompletedGames:    e.CompletedGames,
			HasActiveRotation: e.HasActiveRotation,
		})
	}
	return views, nil
}
