package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	emailAdapter "gudlft/internal/adapters/email"
	"gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// DefaultReminderWindow is how far ahead the reminder job looks.
const DefaultReminderWindow = 24 * time.Hour

// CompetitionListStore defines the competition store interface needed by reminders.
type CompetitionListStore interface {
	List(ctx context.Context) ([]competition.Competition, error)
}

// BookingListStore defines the booking store interface needed by reminders.
type BookingListStore interface {
	ListByCompetition(ctx context.Context, competitionName string) ([]booking.Booking, error)
}

// SendCompetitionRemindersInput carries input for the reminder job.
type SendCompetitionRemindersInput struct {
	Window time.Duration // zero uses DefaultReminderWindow
}

// SendCompetitionRemindersResult counts what the job did.
type SendCompetitionRemindersResult struct {
	Competitions int // competitions starting within the window
	Sent         int
	Failed       int
}

// SendCompetitionRemindersDeps holds dependencies for SendCompetitionReminders.
type SendCompetitionRemindersDeps struct {
	CompetitionStore CompetitionListStore
	BookingStore     BookingListStore
	ClubStore        ClubLookupStore
	EmailSender      emailAdapter.Sender
	Now              func() time.Time
}

// ExecuteSendCompetitionReminders emails every club holding places in a
// competition that starts within the window.
// PRE: EmailSender is non-nil
// POST: One email per (competition, club) pair with at least one booked place.
// Unresolvable clubs and send failures are counted in Failed.
func ExecuteSendCompetitionReminders(ctx context.Context, input SendCompetitionRemindersInput, deps SendCompetitionRemindersDeps) (SendCompetitionRemindersResult, error) {
	window := input.Window
	if window <= 0 {
		window = DefaultReminderWindow
	}
	now := deps.Now()

	comps, err := deps.CompetitionStore.List(ctx)
	if err != nil {
		return SendCompetitionRemindersResult{}, fmt.Errorf("list competitions: %w", err)
	}

	var result SendCompetitionRemindersResult
	var reqs []emailAdapter.SendRequest
	for _, comp := range comps {
		if !comp.StartsWithin(now, window) {
			continue
		}
		result.Competitions++

		bookings, err := deps.BookingStore.ListByCompetition(ctx, comp.Name)
		if err != nil {
			return result, fmt.Errorf("list bookings for %q: %w", comp.Name, err)
		}
		for _, h := range placesByClub(bookings) {
			c, err := deps.ClubStore.GetByName(ctx, h.club)
			if err != nil {
				slog.Warn("reminder_event", "event", "club_lookup_failed", "club", h.club, "competition", comp.Name, "error", err)
				result.Failed++
				continue
			}
			req, err := reminderRequest(c, comp, h.places)
			if err != nil {
				return result, err
			}
			reqs = append(reqs, req)
		}
	}

	if len(reqs) == 0 {
		slog.Info("reminder_event", "event", "reminders_done", "competitions", result.Competitions, "sent", 0)
		return result, nil
	}

	sent, err := deps.EmailSender.SendBatch(ctx, reqs)
	result.Sent = len(sent)
	result.Failed += len(reqs) - len(sent)
	if err != nil {
		slog.Error("reminder_event", "event", "reminder_send_failed", "sent", result.Sent, "failed", result.Failed, "error", err)
	}
	slog.Info("reminder_event", "event", "reminders_done", "competitions", result.Competitions, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

type clubPlaces struct {
	club   string
	places int
}

// placesByClub totals booked places per club, ordered by club name.
func placesByClub(bookings []booking.Booking) []clubPlaces {
	totals := make(map[string]int)
	for _, b := range bookings {
		totals[b.ClubName] += b.Places
	}
	out := make([]clubPlaces, 0, len(totals))
	for name, places := range totals {
		if places > 0 {
			out = append(out, clubPlaces{club: name, places: places})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].club < out[j].club })
	return out
}

func reminderRequest(c club.Club, comp competition.Competition, places int) (emailAdapter.SendRequest, error) {
	body, err := renderEmail(reminderTemplate, map[string]any{
		"Club":        c.Name,
		"Competition": comp,
		"Places":      places,
		"Date":        competition.FormatDate(comp.Date),
	})
	if err != nil {
		return emailAdapter.SendRequest{}, fmt.Errorf("render reminder: %w", err)
	}
	return emailAdapter.SendRequest{
		To:      []string{c.Email},
		Subject: fmt.Sprintf("Reminder: %s starts soon", comp.Name),
		HTML:    body,
		Kind:    emailAdapter.KindReminder,
	}, nil
}
