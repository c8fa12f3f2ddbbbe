package member

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength bounds user-chosen names.
const MaxUsernameLength = 50

// Domain errors.
var (
	ErrEmptyClubID     = errors.New("club ID cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrUsernameTooLong = errors.New("username cannot exceed 50 characters")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrWrongPassword   = errors.New("wrong password")
)

// Member is a club member with a personal game queue.
// A member with an empty PasswordHash is a passcode-only account: anyone who
// knows the club passcode and the username can log in as them. That gap is
// inherited product behavior, not an oversight in this layer.
// INVARIANT: Username is unique within the club (enforced by the store).
// INVARIANT: At most one member per club has IsOwner set.
type Member struct {
	ID           string
	ClubID       string
	Username     string
	PasswordHash string // empty = passcode-only account
	IsOwner      bool
	CreatedAt    time.Time
}

// Validate checks the member's invariants.
// POST: returns nil if valid, error describing the first violation otherwise
func (m *Member) Validate() error {
	if m.ClubID == "" {
		return ErrEmptyClubID
	}
	if strings.TrimSpace(m.Username) == "" {
		return ErrEmptyUsername
	}
	if len(m.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

// SetPassword hashes and stores an optional personal password using bcrypt.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (m *Member) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 10)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// Passcode-only accounts (no hash) accept the login without a password check.
// INVARIANT: Member fields are not mutated
func (m *Member) CheckPassword(plaintext string) error {
	if m.PasswordHash == "" {
		return nil
	}
	if plaintext == "" {
		return ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(plaintext)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// HasPassword reports whether the account is password-protected.
func (m *Member) HasPassword() bool {
	return m.PasswordHash != ""
}
