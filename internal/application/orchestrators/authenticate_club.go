package orchestrators

import (
	"context"
	"strings"

	"gameclub/internal/domain/club"
	"gameclub/internal/domain/faults"
)

// ClubStoreForAuth defines the club lookup needed by AuthenticateClub.
type ClubStoreForAuth interface {
	GetByName(ctx context.Context, name string) (club.Club, error)
}

// AuthenticateClubInput carries input for the orchestrator.
type AuthenticateClubInput struct {
	Name     string
	Passcode string
}

// AuthenticateClubResult identifies the club the caller unlocked.
type AuthenticateClubResult struct {
	ClubID      string
	Name        string
	Description string
}

// AuthenticateClubDeps holds dependencies for AuthenticateClub.
type AuthenticateClubDeps struct {
	ClubStore ClubStoreForAuth
}

// ExecuteAuthenticateClub verifies a club passcode.
// POST: Returns club identity on success; a wrong passcode is Forbidden
func ExecuteAuthenticateClub(ctx context.Context, input AuthenticateClubInput, deps AuthenticateClubDeps) (AuthenticateClubResult, error) {
	c, err := deps.ClubStore.GetByName(ctx, strings.TrimSpace(input.Name))
	if err != nil {
		return AuthenticateClubResult{}, err
	}
	if err := c.CheckPasscode(input.Passcode); err != nil {
		return AuthenticateClubResult{}, faults.Wrap(faults.KindForbidden, err)
	}
	return AuthenticateClubResult{
		ClubID:      c.ID,
		Name:        c.Name,
		Description: c.Description,
	}, nil
}
