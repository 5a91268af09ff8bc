package orchestrators

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	emailAdapter "gudlft/internal/adapters/email"
	bookingStore "gudlft/internal/adapters/storage/booking"
	"gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// memStore is an in-memory club, competition and booking store for orchestrator tests.
type memStore struct {
	clubs    map[string]club.Club
	comps    map[string]competition.Competition
	bookings []booking.Booking

	// staleCommits makes the next N commits report a stale purchase.
	staleCommits int
	commits      int
	commitErr    error
	lookupErr    error
	saved        int
}

func newMemStore(clubs []club.Club, comps []competition.Competition) *memStore {
	m := &memStore{clubs: map[string]club.Club{}, comps: map[string]competition.Competition{}}
	for _, c := range clubs {
		m.clubs[c.Name] = c
	}
	for _, c := range comps {
		m.comps[c.Name] = c
	}
	return m
}

type memClubs struct{ *memStore }
type memComps struct{ *memStore }

func (m memClubs) GetByName(_ context.Context, name string) (club.Club, error) {
	if m.lookupErr != nil {
		return club.Club{}, m.lookupErr
	}
	c, ok := m.clubs[name]
	if !ok {
		return club.Club{}, club.ErrNotFound
	}
	return c, nil
}

func (m memClubs) GetByEmail(_ context.Context, email string) (club.Club, error) {
	if m.lookupErr != nil {
		return club.Club{}, m.lookupErr
	}
	for _, c := range m.clubs {
		if c.MatchesEmail(email) {
			return c, nil
		}
	}
	return club.Club{}, club.ErrNotFound
}

func (m memClubs) List(_ context.Context) ([]club.Club, error) {
	out := make([]club.Club, 0, len(m.clubs))
	for _, c := range m.clubs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memClubs) Save(_ context.Context, c club.Club) error {
	m.clubs[c.Name] = c
	m.saved++
	return nil
}

func (m memComps) GetByName(_ context.Context, name string) (competition.Competition, error) {
	c, ok := m.comps[name]
	if !ok {
		return competition.Competition{}, competition.ErrNotFound
	}
	return c, nil
}

func (m memComps) List(_ context.Context) ([]competition.Competition, error) {
	out := make([]competition.Competition, 0, len(m.comps))
	for _, c := range m.comps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m memComps) Save(_ context.Context, c competition.Competition) error {
	m.comps[c.Name] = c
	m.saved++
	return nil
}

func (m *memStore) CommitPurchase(_ context.Context, p bookingStore.Purchase) error {
	m.commits++
	if m.commitErr != nil {
		return m.commitErr
	}
	if m.staleCommits > 0 {
		m.staleCommits--
		// Another request took two places in the meantime.
		comp := m.comps[p.Competition.Name]
		comp.NumberOfPlaces -= 2
		m.comps[comp.Name] = comp
		return booking.ErrStalePurchase
	}
	if m.clubs[p.Club.Name].Points != p.PreviousPoints || m.comps[p.Competition.Name].NumberOfPlaces != p.PreviousPlaces {
		return booking.ErrStalePurchase
	}
	m.clubs[p.Club.Name] = p.Club
	m.comps[p.Competition.Name] = p.Competition
	m.bookings = append(m.bookings, p.Booking)
	return nil
}

func (m *memStore) ListByClub(_ context.Context, name string) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range m.bookings {
		if b.ClubName == name {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListByCompetition(_ context.Context, name string) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range m.bookings {
		if b.CompetitionName == name {
			out = append(out, b)
		}
	}
	return out, nil
}

// failingSender fails every request whose recipient contains failFor.
type failingSender struct {
	failFor string
	sent    []emailAdapter.SendRequest
}

func (s *failingSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	if s.failFor != "" && strings.Contains(strings.Join(req.To, ","), s.failFor) {
		return emailAdapter.SendResult{}, errors.New("provider unavailable")
	}
	s.sent = append(s.sent, req)
	return emailAdapter.SendResult{MessageID: "m", SentAt: time.Now()}, nil
}

func (s *failingSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	var out []emailAdapter.SendResult
	for _, r := range reqs {
		res, err := s.Send(ctx, r)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

func testNow() time.Time { return fixedNow }

func testClubs() []club.Club {
	return []club.Club{
		{Name: "Simply Lift", Email: "john@simplylift.co", Points: 13},
		{Name: "Iron Temple", Email: "admin@irontemple.com", Points: 4},
		{Name: "She Lifts", Email: "kate@shelifts.co.uk", Points: 12},
	}
}

func testCompetitions() []competition.Competition {
	return []competition.Competition{
		{Name: "Spring Festival", Date: fixedNow.AddDate(0, 0, 20), NumberOfPlaces: 25},
		{Name: "Fall Classic", Date: fixedNow.AddDate(0, -1, 0), NumberOfPlaces: 13},
		{Name: "Tomorrow Open", Date: fixedNow.Add(6 * time.Hour), NumberOfPlaces: 10},
	}
}
