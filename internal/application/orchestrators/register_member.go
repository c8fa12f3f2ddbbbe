package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gameclub/internal/domain/club"
	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/member"
)

// MemberStoreForRegister defines the store interface needed by RegisterMember.
type MemberStoreForRegister interface {
	Create(ctx context.Context, m member.Member) (member.Member, error)
}

// ClubStoreForRegister defines the club lookup needed by RegisterMember.
type ClubStoreForRegister interface {
	GetByID(ctx context.Context, id string) (club.Club, error)
}

// RegisterMemberInput carries input for the orchestrator.
// Password is optional; without one the account is passcode-only.
type RegisterMemberInput struct {
	ClubID   string
	Username string
	Password string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStoreForRegister
	ClubStore   ClubStoreForRegister
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteRegisterMember coordinates member registration.
// PRE: ClubID references an existing club (the caller passed club auth)
// POST: Member created; the first member of the club is promoted to owner and
// recorded on the club row in the same transaction
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	username := strings.TrimSpace(input.Username)
	if input.ClubID == "" || username == "" {
		return member.Member{}, faults.New(faults.KindInvalidArgument, "club ID and username are required")
	}
	if _, err := deps.ClubStore.GetByID(ctx, input.ClubID); err != nil {
		return member.Member{}, err
	}

	m := member.Member{
		ID:        deps.GenerateID(),
		ClubID:    input.ClubID,
		Username:  username,
		CreatedAt: deps.Now(),
	}
	if input.Password != "" {
		if err := m.SetPassword(input.Password); err != nil {
			return member.Member{}, faults.Wrap(faults.KindInvalidArgument, err)
		}
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, faults.Wrap(faults.KindInvalidArgument, err)
	}

	created, err := deps.MemberStore.Create(ctx, m)
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("auth_event", "event", "member_registered",
		"club_id", created.ClubID, "member_id", created.ID, "is_owner", created.IsOwner)
	return created, nil
}
