package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	domainBooking "gudlft/internal/domain/booking"
	domainClub "gudlft/internal/domain/club"
	domainCompetition "gudlft/internal/domain/competition"
)

// GetSummaryQuery carries query parameters.
type GetSummaryQuery struct {
	ClubName string
}

// CompetitionRow is a competition as listed on the welcome page.
type CompetitionRow struct {
	Competition  domainCompetition.Competition
	IsPast       bool
	BookedPlaces int // places the logged-in club holds in it
}

// GetSummaryResult carries the welcome page data.
type GetSummaryResult struct {
	Club         domainClub.Club
	Competitions []CompetitionRow
	Bookings     []domainBooking.Booking
	Board        []PointsBoardRow
}

// GetSummaryDeps holds dependencies for GetSummary.
type GetSummaryDeps struct {
	ClubStore        ClubStore
	CompetitionStore CompetitionStore
	BookingStore     BookingStore
	Now              func() time.Time
}

// QueryGetSummary builds the welcome page for a club.
// PRE: ClubName identifies a stored club
// POST: Competitions are sorted by date; bookings newest first
func QueryGetSummary(ctx context.Context, query GetSummaryQuery, deps GetSummaryDeps) (GetSummaryResult, error) {
	c, err := deps.ClubStore.GetByName(ctx, query.ClubName)
	if err != nil {
		return GetSummaryResult{}, fmt.Errorf("load club: %w", err)
	}
	comps, err := deps.CompetitionStore.List(ctx)
	if err != nil {
		return GetSummaryResult{}, fmt.Errorf("list competitions: %w", err)
	}
	bookings, err := deps.BookingStore.ListByClub(ctx, c.Name)
	if err != nil {
		return GetSummaryResult{}, fmt.Errorf("list bookings: %w", err)
	}
	board, err := QueryGetPointsBoard(ctx, GetPointsBoardDeps{ClubStore: deps.ClubStore})
	if err != nil {
		return GetSummaryResult{}, fmt.Errorf("points board: %w", err)
	}

	booked := make(map[string]int)
	for _, b := range bookings {
		booked[b.CompetitionName] += b.Places
	}

	now := deps.Now()
	rows := make([]CompetitionRow, 0, len(comps))
	for _, comp := range comps {
		rows = append(rows, CompetitionRow{
			Competition:  comp,
			IsPast:       comp.IsPast(now),
			BookedPlaces: booked[comp.Name],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Competition.Date.Before(rows[j].Competition.Date) })
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })

	return GetSummaryResult{
		Club:         c,
		Competitions: rows,
		Bookings:     bookings,
		Board:        board.Clubs,
	}, nil
}
