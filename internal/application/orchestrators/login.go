package orchestrators

import (
	"context"
	"log/slog"

	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/member"
)

// MemberStoreForLogin defines the store interface needed by Login.
type MemberStoreForLogin interface {
	GetByUsername(ctx context.Context, clubID, username string) (member.Member, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	ClubID   string
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	MemberStore MemberStoreForLogin
}

// ExecuteLogin validates member credentials within a club.
// Accounts without a password log in by username alone; the club passcode is
// the only barrier for them.
// POST: Returns the member for session creation, Forbidden on a bad password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (member.Member, error) {
	if input.ClubID == "" || input.Username == "" {
		return member.Member{}, faults.New(faults.KindInvalidArgument, "club ID and username are required")
	}

	m, err := deps.MemberStore.GetByUsername(ctx, input.ClubID, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed",
			"club_id", input.ClubID, "username", input.Username, "reason", "not_found")
		return member.Member{}, err
	}

	if m.HasPassword() && input.Password == "" {
		slog.Info("auth_event", "event", "login_failed",
			"club_id", input.ClubID, "username", input.Username, "reason", "password_required")
		return member.Member{}, faults.New(faults.KindForbidden, "password required")
	}
	if err := m.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed",
			"club_id", input.ClubID, "username", input.Username, "reason", "wrong_password")
		return member.Member{}, faults.Wrap(faults.KindForbidden, err)
	}

	slog.Info("auth_event", "event", "login_success",
		"club_id", m.ClubID, "member_id", m.ID, "is_owner", m.IsOwner)
	return m, nil
}
