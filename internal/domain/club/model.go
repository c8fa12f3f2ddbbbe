package club

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 2000
	MinPasscodeLength    = 4
)

// Domain errors.
var (
	ErrEmptyName          = errors.New("club name cannot be empty")
	ErrNameTooLong        = errors.New("club name cannot exceed 100 characters")
	ErrDescriptionTooLong = errors.New("club description cannot exceed 2000 characters")
	ErrPasscodeTooShort   = errors.New("passcode must be at least 4 characters")
	ErrWrongPasscode      = errors.New("wrong passcode")
)

// Club is a group of members sharing a passcode and a game rotation.
// INVARIANT: Name is globally unique (enforced by the store).
// INVARIANT: OwnerID, once assigned, is the first member who registered.
type Club struct {
	ID           string
	Name         string
	Description  string // markdown, rendered on the read side
	PasscodeHash string
	OwnerID      string // empty until the first member registers
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the club's invariants.
// POST: returns nil if valid, error describing the first violation otherwise
func (c *Club) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// SetPasscode hashes and stores the shared passcode using bcrypt.
// PRE: plaintext is at least MinPasscodeLength characters
// POST: PasscodeHash is set to bcrypt hash
func (c *Club) SetPasscode(plaintext string) error {
	if len(plaintext) < MinPasscodeLength {
		return ErrPasscodeTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 10)
	if err != nil {
		return err
	}
	c.PasscodeHash = string(hash)
	return nil
}

// CheckPasscode verifies a plaintext passcode against the stored hash.
// INVARIANT: Club fields are not mutated
func (c *Club) CheckPasscode(plaintext string) error {
	if bcrypt.CompareHashAndPassword([]byte(c.PasscodeHash), []byte(plaintext)) != nil {
		return ErrWrongPasscode
	}
	return nil
}

// HasOwner reports whether an owner has been assigned yet.
func (c *Club) HasOwner() bool {
	return c.OwnerID != ""
}
