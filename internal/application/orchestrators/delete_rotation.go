package orchestrators

import (
	"context"
	"log/slog"

	"gameclub/internal/domain/faults"
)

// RotationStoreForDelete defines the store interface needed by DeleteRotation.
type RotationStoreForDelete interface {
	DeleteCascade(ctx context.Context, clubID, rotationID string) error
}

// DeleteRotationInput carries input for the orchestrator.
type DeleteRotationInput struct {
	ClubID     string
	IsOwner    bool
	RotationID string
}

// DeleteRotationDeps holds dependencies for DeleteRotation.
type DeleteRotationDeps struct {
	RotationStore RotationStoreForDelete
}

// ExecuteDeleteRotation removes a planned or active rotation. Any game that
// was playing in it returns to its owner's queue; completed rotations are
// history and stay.
// PRE: Caller is the club owner
func ExecuteDeleteRotation(ctx context.Context, input DeleteRotationInput, deps DeleteRotationDeps) error {
	if !input.IsOwner {
		return faults.New(faults.KindForbidden, "only the club owner can delete rotations")
	}
	if input.RotationID == "" {
		return faults.New(faults.KindInvalidArgument, "rotation ID is required")
	}

	if err := deps.RotationStore.DeleteCascade(ctx, input.ClubID, input.RotationID); err != nil {
		return err
	}

	slog.Info("rotation_event", "event", "rotation_deleted",
		"club_id", input.ClubID, "rotation_id", input.RotationID)
	return nil
}
