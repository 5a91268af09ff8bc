package booking

import (
	"context"

	domain "gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// Purchase is an accepted purchase ready to be committed.
// Club and Competition hold the state after the purchase; the Previous
// fields hold what the caller read before validating it.
type Purchase struct {
	Club           club.Club
	Competition    competition.Competition
	PreviousPoints int
	PreviousPlaces int
	Booking        domain.Booking
}

// Store persists purchases and the booking ledger.
type Store interface {
	// CommitPurchase writes the club, competition and booking together.
	// It returns domain.ErrStalePurchase without writing anything if the
	// stored points or places no longer match the Previous fields.
	CommitPurchase(ctx context.Context, p Purchase) error
	ListByClub(ctx context.Context, clubName string) ([]domain.Booking, error)
	ListByCompetition(ctx context.Context, competitionName string) ([]domain.Booking, error)
}
