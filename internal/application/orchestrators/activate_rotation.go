package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"gameclub/internal/domain/faults"
)

// RotationStoreForActivate defines the store interface needed by ActivateRotation.
type RotationStoreForActivate interface {
	Activate(ctx context.Context, clubID, rotationID string, now time.Time) error
}

// ActivateRotationInput carries input for the orchestrator.
type ActivateRotationInput struct {
	ClubID     string
	IsOwner    bool
	RotationID string
}

// ActivateRotationDeps holds dependencies for ActivateRotation.
type ActivateRotationDeps struct {
	RotationStore RotationStoreForActivate
	Now           func() time.Time
}

// ExecuteActivateRotation promotes a rotation to active. Whatever rotation was
// active before is force-completed in the same transaction, so the club never
// briefly has two active rotations.
// PRE: Caller is the club owner
// POST: InvalidState when the target is already completed
func ExecuteActivateRotation(ctx context.Context, input ActivateRotationInput, deps ActivateRotationDeps) error {
	if !input.IsOwner {
		return faults.New(faults.KindForbidden, "only the club owner can activate rotations")
	}
	if input.RotationID == "" {
		return faults.New(faults.KindInvalidArgument, "rotation ID is required")
	}

	if err := deps.RotationStore.Activate(ctx, input.ClubID, input.RotationID, deps.Now()); err != nil {
		return err
	}

	slog.Info("rotation_event", "event", "rotation_activated",
		"club_id", input.ClubID, "rotation_id", input.RotationID)
	return nil
}
