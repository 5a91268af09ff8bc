package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// ClubLookupStore defines the club store interface needed for bookings.
type ClubLookupStore interface {
	GetByName(ctx context.Context, name string) (club.Club, error)
}

// CompetitionLookupStore defines the competition store interface needed for bookings.
type CompetitionLookupStore interface {
	GetByName(ctx context.Context, name string) (competition.Competition, error)
}

// Lookup failures shared by the booking form and the purchase.
var (
	ErrUnknownClub        = errors.New("unknown club")
	ErrUnknownCompetition = errors.New("unknown competition")
)

// BookingFormInput carries input for the booking form.
type BookingFormInput struct {
	CompetitionName string
	ClubName        string
}

// BookingFormResult carries what the booking form displays.
type BookingFormResult struct {
	Club        club.Club
	Competition competition.Competition
	MaxPlaces   int  // largest request the purchase would accept
	IsPast      bool // the competition can no longer be booked
}

// BookingFormDeps holds dependencies for GetBookingForm.
type BookingFormDeps struct {
	ClubStore        ClubLookupStore
	CompetitionStore CompetitionLookupStore
	Rules            booking.Rules
	Now              func() time.Time
}

// ExecuteGetBookingForm resolves the club and competition for a booking form.
// PRE: none
// POST: Returns both entities with the binding cap. When only the competition
// is unknown, the result still carries the club alongside ErrUnknownCompetition.
func ExecuteGetBookingForm(ctx context.Context, input BookingFormInput, deps BookingFormDeps) (BookingFormResult, error) {
	c, err := lookupClub(ctx, deps.ClubStore, input.ClubName)
	if err != nil {
		return BookingFormResult{}, err
	}
	comp, err := lookupCompetition(ctx, deps.CompetitionStore, input.CompetitionName)
	if err != nil {
		return BookingFormResult{Club: c}, err
	}

	result := BookingFormResult{
		Club:        c,
		Competition: comp,
		IsPast:      comp.IsPast(deps.Now()),
	}
	if !result.IsPast {
		result.MaxPlaces = booking.BindingCap(c.Points, comp.NumberOfPlaces, deps.Rules).Value
	}
	return result, nil
}

func lookupClub(ctx context.Context, store ClubLookupStore, name string) (club.Club, error) {
	c, err := store.GetByName(ctx, name)
	if errors.Is(err, club.ErrNotFound) {
		return club.Club{}, fmt.Errorf("%w: %q", ErrUnknownClub, name)
	}
	if err != nil {
		return club.Club{}, fmt.Errorf("look up club: %w", err)
	}
	return c, nil
}

func lookupCompetition(ctx context.Context, store CompetitionLookupStore, name string) (competition.Competition, error) {
	comp, err := store.GetByName(ctx, name)
	if errors.Is(err, competition.ErrNotFound) {
		return competition.Competition{}, fmt.Errorf("%w: %q", ErrUnknownCompetition, name)
	}
	if err != nil {
		return competition.Competition{}, fmt.Errorf("look up competition: %w", err)
	}
	return comp, nil
}
