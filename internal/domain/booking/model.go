package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// ErrStalePurchase is returned by stores when the club or competition changed
// between the read that validated a purchase and the commit.
var ErrStalePurchase = errors.New("club or competition changed during purchase")

// Booking is the ledger entry for an accepted purchase.
type Booking struct {
	ID              string
	Reference       string
	ClubName        string
	CompetitionName string
	Places          int
	PointsSpent     int
	CreatedAt       time.Time
}

// Validate checks the booking's invariants.
// PRE: b fields may be empty (validation will catch this).
// POST: Returns nil if valid, error with descriptive message otherwise.
func (b *Booking) Validate() error {
	if b.ID == "" {
		return errors.New("booking id is required")
	}
	if b.ClubName == "" {
		return errors.New("club name is required")
	}
	if b.CompetitionName == "" {
		return errors.New("competition name is required")
	}
	if b.Places <= 0 {
		return errors.New("a booking must hold at least one place")
	}
	if b.PointsSpent < 0 {
		return errors.New("points spent cannot be negative")
	}
	return nil
}

// NewReference builds the human-readable booking reference from the
// competition and club names plus the first block of the booking ID.
func NewReference(competitionName, clubName, id string) string {
	suffix, _, _ := strings.Cut(id, "-")
	return slug.Make(competitionName + " " + clubName + " " + suffix)
}
