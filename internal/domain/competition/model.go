package competition

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the persisted format of a competition date.
const DateLayout = "2006-01-02 15:04:05"

// Domain errors
var (
	ErrEmptyName      = errors.New("competition name cannot be empty")
	ErrMissingDate    = errors.New("competition date is required")
	ErrNegativePlaces = errors.New("number of places cannot be negative")
	ErrNotFound       = errors.New("competition not found")
)

// Competition holds state for the Competition concept.
// NumberOfPlaces is the remaining capacity, not the original size.
type Competition struct {
	Name           string
	Date           time.Time
	NumberOfPlaces int
	Description    string // optional, markdown
}

// Validate checks if the Competition has valid data.
// PRE: Competition struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Competition) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Date.IsZero() {
		return ErrMissingDate
	}
	if c.NumberOfPlaces < 0 {
		return ErrNegativePlaces
	}
	return nil
}

// IsPast returns true if the competition takes place at or before now.
// INVARIANT: Competition fields are not mutated
func (c *Competition) IsPast(now time.Time) bool {
	return !c.Date.After(now)
}

// IsFull returns true when no places remain.
// INVARIANT: Competition fields are not mutated
func (c *Competition) IsFull() bool {
	return c.NumberOfPlaces <= 0
}

// StartsWithin reports whether the competition starts in [from, from+window).
func (c *Competition) StartsWithin(from time.Time, window time.Duration) bool {
	return !c.Date.Before(from) && c.Date.Before(from.Add(window))
}

// ParseDate parses a persisted competition date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// FormatDate renders t in the persisted layout.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}
