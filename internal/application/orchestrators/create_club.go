package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gameclub/internal/domain/club"
	"gameclub/internal/domain/faults"
)

// ClubStoreForCreate defines the store interface needed by CreateClub.
type ClubStoreForCreate interface {
	GetByName(ctx context.Context, name string) (club.Club, error)
	Save(ctx context.Context, c club.Club) error
}

// CreateClubInput carries input for the orchestrator.
type CreateClubInput struct {
	Name        string
	Description string
	Passcode    string
}

// CreateClubDeps holds dependencies for CreateClub.
type CreateClubDeps struct {
	ClubStore  ClubStoreForCreate
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateClub coordinates club creation.
// PRE: input fields are raw user input
// POST: Club persisted with a hashed passcode and no owner; the first member
// to register claims ownership
func ExecuteCreateClub(ctx context.Context, input CreateClubInput, deps CreateClubDeps) (club.Club, error) {
	name := strings.TrimSpace(input.Name)

	if _, err := deps.ClubStore.GetByName(ctx, name); err == nil {
		return club.Club{}, faults.New(faults.KindConflict, "a club with that name already exists")
	} else if faults.KindOf(err) != faults.KindNotFound {
		return club.Club{}, err
	}

	now := deps.Now()
	c := club.Club{
		ID:          deps.GenerateID(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.SetPasscode(input.Passcode); err != nil {
		return club.Club{}, faults.Wrap(faults.KindInvalidArgument, err)
	}
	if err := c.Validate(); err != nil {
		return club.Club{}, faults.Wrap(faults.KindInvalidArgument, err)
	}

	if err := deps.ClubStore.Save(ctx, c); err != nil {
		return club.Club{}, err
	}

	slog.Info("club_event", "event", "club_created", "club_id", c.ID, "name", c.Name)
	return c, nil
}
