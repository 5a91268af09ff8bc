package club

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// Domain errors
var (
	ErrEmptyName      = errors.New("club name cannot be empty")
	ErrNameTooLong    = errors.New("club name cannot exceed 100 characters")
	ErrEmptyEmail     = errors.New("email cannot be empty")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrNegativePoints = errors.New("points cannot be negative")
	ErrNotFound       = errors.New("club not found")
)

// Club holds state for the Club concept.
// Name and Email are both unique; Email is the login key.
type Club struct {
	Name   string
	Email  string
	Points int
}

// Validate checks if the Club has valid data.
// PRE: Club struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Club) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmptyEmail
	}
	if len(c.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if c.Points < 0 {
		return ErrNegativePoints
	}
	return nil
}

// MatchesEmail reports whether email identifies this club.
// Comparison ignores case and surrounding whitespace.
// INVARIANT: Club fields are not mutated
func (c *Club) MatchesEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Email), NormalizeEmail(email))
}

// NormalizeEmail returns the canonical form of an email used for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
