package jsondoc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// ClubRecord is a club as stored in clubs.json. Points is a decimal string.
type ClubRecord struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points string `json:"points"`
}

// CompetitionRecord is a competition as stored in competitions.json.
type CompetitionRecord struct {
	Name           string `json:"name"`
	Date           string `json:"date"`
	NumberOfPlaces string `json:"number_of_places"`
	Description    string `json:"description,omitempty"`
}

// BookingRecord is a ledger entry as stored in bookings.json.
type BookingRecord struct {
	ID          string `json:"id"`
	Reference   string `json:"reference"`
	Club        string `json:"club"`
	Competition string `json:"competition"`
	Places      int    `json:"places"`
	PointsSpent int    `json:"points_spent"`
	CreatedAt   string `json:"created_at"`
}

type clubsDocument struct {
	Clubs []ClubRecord `json:"clubs"`
}

type competitionsDocument struct {
	Competitions []CompetitionRecord `json:"competitions"`
}

type bookingsDocument struct {
	Bookings []BookingRecord `json:"bookings"`
}

// ToClub converts a record to the domain type.
func (r ClubRecord) ToClub() (club.Club, error) {
	points, err := strconv.Atoi(strings.TrimSpace(r.Points))
	if err != nil {
		return club.Club{}, fmt.Errorf("club %q: invalid points %q: %w", r.Name, r.Points, err)
	}
	return club.Club{Name: r.Name, Email: r.Email, Points: points}, nil
}

// FromClub converts a domain club to its stored form.
func FromClub(c club.Club) ClubRecord {
	return ClubRecord{Name: c.Name, Email: c.Email, Points: strconv.Itoa(c.Points)}
}

// ToCompetition converts a record to the domain type.
func (r CompetitionRecord) ToCompetition() (competition.Competition, error) {
	date, err := competition.ParseDate(r.Date)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("competition %q: invalid date %q: %w", r.Name, r.Date, err)
	}
	places, err := strconv.Atoi(strings.TrimSpace(r.NumberOfPlaces))
	if err != nil {
		return competition.Competition{}, fmt.Errorf("competition %q: invalid number_of_places %q: %w", r.Name, r.NumberOfPlaces, err)
	}
	return competition.Competition{
		Name:           r.Name,
		Date:           date,
		NumberOfPlaces: places,
		Description:    r.Description,
	}, nil
}

// FromCompetition converts a domain competition to its stored form.
func FromCompetition(c competition.Competition) CompetitionRecord {
	return CompetitionRecord{
		Name:           c.Name,
		Date:           competition.FormatDate(c.Date),
		NumberOfPlaces: strconv.Itoa(c.NumberOfPlaces),
		Description:    c.Description,
	}
}

// ToBooking converts a record to the domain type.
func (r BookingRecord) ToBooking() (booking.Booking, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("booking %q: invalid created_at: %w", r.ID, err)
	}
	return booking.Booking{
		ID:              r.ID,
		Reference:       r.Reference,
		ClubName:        r.Club,
		CompetitionName: r.Competition,
		Places:          r.Places,
		PointsSpent:     r.PointsSpent,
		CreatedAt:       createdAt,
	}, nil
}

// FromBooking converts a domain booking to its stored form.
func FromBooking(b booking.Booking) BookingRecord {
	return BookingRecord{
		ID:          b.ID,
		Reference:   b.Reference,
		Club:        b.ClubName,
		Competition: b.CompetitionName,
		Places:      b.Places,
		PointsSpent: b.PointsSpent,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
