package projections

import (
	"context"

	domainBooking "gudlft/internal/domain/booking"
	domainClub "gudlft/internal/domain/club"
	domainCompetition "gudlft/internal/domain/competition"
)

// ClubStore interface for club queries.
type ClubStore interface {
	GetByName(ctx context.Context, name string) (domainClub.Club, error)
	List(ctx context.Context) ([]domainClub.Club, error)
}

// CompetitionStore interface for competition queries.
type CompetitionStore interface {
	List(ctx context.Context) ([]domainCompetition.Competition, error)
}

// BookingStore interface for booking ledger queries.
type BookingStore interface {
	ListByClub(ctx context.Context, clubName string) ([]domainBooking.Booking, error)
}
