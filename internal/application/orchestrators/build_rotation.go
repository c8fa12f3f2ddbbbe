package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/rotation"
)

// RotationStoreForBuild defines the store interface needed by BuildRotation.
type RotationStoreForBuild interface {
	BuildSnapshot(ctx context.Context, r rotation.Rotation, newEntryID func() string) (int, error)
}

// BuildRotationInput carries input for the orchestrator.
type BuildRotationInput struct {
	ClubID  string
	IsOwner bool
	Name    string
}

// BuildRotationResult reports the created rotation and its entry count.
type BuildRotationResult struct {
	Rotation  rotation.Rotation
	GameCount int
}

// BuildRotationDeps holds dependencies for BuildRotation.
type BuildRotationDeps struct {
	RotationStore RotationStoreForBuild
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteBuildRotation snapshots each member's head-of-queue game into a new
// planned rotation. Members with nothing unplayed are skipped; a rotation with
// zero entries is still created.
// PRE: Caller is the club owner
// POST: Conflict if the club already has an active rotation
func ExecuteBuildRotation(ctx context.Context, input BuildRotationInput, deps BuildRotationDeps) (BuildRotationResult, error) {
	if !input.IsOwner {
		return BuildRotationResult{}, faults.New(faults.KindForbidden, "only the club owner can create rotations")
	}

	r := rotation.Rotation{
		ID:        deps.GenerateID(),
		ClubID:    input.ClubID,
		Name:      strings.TrimSpace(input.Name),
		Status:    rotation.StatusPlanned,
		CreatedAt: deps.Now(),
	}
	if err := r.Validate(); err != nil {
		return BuildRotationResult{}, faults.Wrap(faults.KindInvalidArgument, err)
	}

	count, err := deps.RotationStore.BuildSnapshot(ctx, r, deps.GenerateID)
	if err != nil {
		return BuildRotationResult{}, err
	}

	slog.Info("rotation_event", "event", "rotation_built",
		"club_id", r.ClubID, "rotation_id", r.ID, "game_count", count)
	return BuildRotationResult{Rotation: r, GameCount: count}, nil
}
