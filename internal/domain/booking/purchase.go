package booking

import (
	"errors"
	"fmt"
	"time"

	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// Default booking rules.
const (
	DefaultMaxPlacesPerBooking = 12
	DefaultPointsPerPlace      = 3
)

// Rules configures the purchase caps.
type Rules struct {
	MaxPlacesPerBooking int
	PointsPerPlace      int
}

// DefaultRules are the rules used when nothing else is configured.
var DefaultRules = Rules{
	MaxPlacesPerBooking: DefaultMaxPlacesPerBooking,
	PointsPerPlace:      DefaultPointsPerPlace,
}

// Validate checks the rules are usable.
func (r Rules) Validate() error {
	if r.PointsPerPlace <= 0 {
		return errors.New("points per place must be positive")
	}
	if r.MaxPlacesPerBooking < 0 {
		return errors.New("max places per booking cannot be negative")
	}
	return nil
}

// Purchase rejections, in precedence order.
var (
	ErrPastCompetition             = errors.New("past competition")
	ErrNegativePlaces              = errors.New("negative number of places")
	ErrClubPointsExceeded          = errors.New("club points exceeded")
	ErrMaxPlacesExceeded           = errors.New("max places per booking exceeded")
	ErrCompetitionCapacityExceeded = errors.New("competition capacity exceeded")
)

// CapKind identifies one of the three purchase caps.
type CapKind int

// Cap kinds in tie-break priority order.
const (
	CapClubPoints CapKind = iota
	CapMaxPlaces
	CapAvailablePlaces
)

// Cap is one limit on the number of places a purchase may take.
type Cap struct {
	Kind  CapKind
	Value int
}

// Rejection is returned when a purchase is refused.
// It unwraps to one of the Err* sentinels above.
type Rejection struct {
	Err       error
	Requested int
	Cap       Cap // zero for past and negative rejections
	rules     Rules
}

// Error implements error.
func (r *Rejection) Error() string {
	return fmt.Sprintf("purchase rejected: %v (requested %d)", r.Err, r.Requested)
}

// Unwrap returns the sentinel error.
func (r *Rejection) Unwrap() error {
	return r.Err
}

// Message returns the text shown to the club secretary.
func (r *Rejection) Message() string {
	switch r.Err {
	case ErrPastCompetition:
		return "You can't book this past competition!"
	case ErrNegativePlaces:
		return "You can't book a negative number of places!"
	case ErrClubPointsExceeded:
		return "You can't book more than your available points!"
	case ErrMaxPlacesExceeded:
		return fmt.Sprintf("You can't book more than %d places!", r.rules.MaxPlacesPerBooking)
	case ErrCompetitionCapacityExceeded:
		return "You can't book more than available places of this competition!"
	}
	return "Something went wrong - please try again"
}

// capErrors maps each cap to the rejection it produces.
var capErrors = map[CapKind]error{
	CapClubPoints:      ErrClubPointsExceeded,
	CapMaxPlaces:       ErrMaxPlacesExceeded,
	CapAvailablePlaces: ErrCompetitionCapacityExceeded,
}

// BindingCap returns the smallest of the three caps for a club and competition.
// Equal caps resolve to the earliest in CapClubPoints, CapMaxPlaces,
// CapAvailablePlaces order.
func BindingCap(points, availablePlaces int, rules Rules) Cap {
	caps := []Cap{
		{Kind: CapClubPoints, Value: points / rules.PointsPerPlace},
		{Kind: CapMaxPlaces, Value: rules.MaxPlacesPerBooking},
		{Kind: CapAvailablePlaces, Value: availablePlaces},
	}
	binding := caps[0]
	for _, c := range caps[1:] {
		if c.Value < binding.Value {
			binding = c
		}
	}
	return binding
}

// ValidateAndApply decides a purchase of requested places and, when accepted,
// returns the club and competition with the purchase applied.
// PRE: rules are valid; c.Points >= 0 and comp.NumberOfPlaces >= 0
// POST: On success, points decrease by requested*PointsPerPlace and places by
// requested, neither going negative. On rejection the inputs are returned
// unchanged with a *Rejection.
// INVARIANT: no I/O; inputs are passed by value and never mutated
func ValidateAndApply(c club.Club, comp competition.Competition, requested int, now time.Time, rules Rules) (club.Club, competition.Competition, error) {
	if comp.IsPast(now) {
		return c, comp, &Rejection{Err: ErrPastCompetition, Requested: requested, rules: rules}
	}
	if requested < 0 {
		return c, comp, &Rejection{Err: ErrNegativePlaces, Requested: requested, rules: rules}
	}

	binding := BindingCap(c.Points, comp.NumberOfPlaces, rules)
	if requested > binding.Value {
		return c, comp, &Rejection{Err: capErrors[binding.Kind], Requested: requested, Cap: binding, rules: rules}
	}

	c.Points -= requested * rules.PointsPerPlace
	comp.NumberOfPlaces -= requested
	return c, comp, nil
}
