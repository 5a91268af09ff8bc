package booking

import (
	"context"
	"fmt"

	"gudlft/internal/adapters/storage/jsondoc"
	domain "gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// JSONStore implements Store on top of the JSON documents.
type JSONStore struct {
	repo *jsondoc.Repository
}

// NewJSONStore creates a new booking JSONStore.
func NewJSONStore(repo *jsondoc.Repository) *JSONStore {
	return &JSONStore{repo: repo}
}

// CommitPurchase rewrites clubs.json, competitions.json and bookings.json in
// one repository update.
// PRE: p.Booking has been validated
// POST: All three documents reflect the purchase, or none changed
func (s *JSONStore) CommitPurchase(_ context.Context, p Purchase) error {
	return s.repo.Update(func(d *jsondoc.Documents) error {
		ci := -1
		for i := range d.Clubs {
			if d.Clubs[i].Name == p.Club.Name {
				ci = i
				break
			}
		}
		if ci < 0 {
			return fmt.Errorf("%w: name %q", club.ErrNotFound, p.Club.Name)
		}
		current, err := d.Clubs[ci].ToClub()
		if err != nil {
			return err
		}
		if current.Points != p.PreviousPoints {
			return domain.ErrStalePurchase
		}

		pi := -1
		for i := range d.Competitions {
			if d.Competitions[i].Name == p.Competition.Name {
				pi = i
				break
			}
		}
		if pi < 0 {
			return fmt.Errorf("%w: name %q", competition.ErrNotFound, p.Competition.Name)
		}
		currentComp, err := d.Competitions[pi].ToCompetition()
		if err != nil {
			return err
		}
		if currentComp.NumberOfPlaces != p.PreviousPlaces {
			return domain.ErrStalePurchase
		}

		d.Clubs[ci].Points = jsondoc.FromClub(p.Club).Points
		d.Competitions[pi].NumberOfPlaces = jsondoc.FromCompetition(p.Competition).NumberOfPlaces
		d.Bookings = append(d.Bookings, jsondoc.FromBooking(p.Booking))
		return nil
	})
}

// ListByClub returns the club's bookings, oldest first.
func (s *JSONStore) ListByClub(_ context.Context, clubName string) ([]domain.Booking, error) {
	return s.list(func(r jsondoc.BookingRecord) bool { return r.Club == clubName })
}

// ListByCompetition returns the competition's bookings, oldest first.
func (s *JSONStore) ListByCompetition(_ context.Context, competitionName string) ([]domain.Booking, error) {
	return s.list(func(r jsondoc.BookingRecord) bool { return r.Competition == competitionName })
}

func (s *JSONStore) list(match func(jsondoc.BookingRecord) bool) ([]domain.Booking, error) {
	var results []domain.Booking
	err := s.repo.View(func(d *jsondoc.Documents) error {
		for _, rec := range d.Bookings {
			if !match(rec) {
				continue
			}
			b, err := rec.ToBooking()
			if err != nil {
				return err
			}
			results = append(results, b)
		}
		return nil
	})
	return results, err
}
