package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "gudlft/internal/adapters/email"
	bookingStore "gudlft/internal/adapters/storage/booking"
	"gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// maxPurchaseAttempts bounds how often a purchase is re-read after a stale commit.
const maxPurchaseAttempts = 3

// BookingCommitStore defines the booking store interface needed by PurchasePlaces.
type BookingCommitStore interface {
	CommitPurchase(ctx context.Context, p bookingStore.Purchase) error
}

// PurchasePlacesInput carries input for the purchase orchestrator.
type PurchasePlacesInput struct {
	ClubName        string
	CompetitionName string
	Places          int
}

// PurchasePlacesResult carries the state after an accepted purchase.
type PurchasePlacesResult struct {
	Club        club.Club
	Competition competition.Competition
	Booking     *booking.Booking // nil when zero places were requested
}

// PurchasePlacesDeps holds dependencies for PurchasePlaces.
type PurchasePlacesDeps struct {
	ClubStore        ClubLookupStore
	CompetitionStore CompetitionLookupStore
	BookingStore     BookingCommitStore
	EmailSender      emailAdapter.Sender // optional: nil skips the confirmation email
	Rules            booking.Rules
	GenerateID       func() string
	Now              func() time.Time
}

// ExecutePurchasePlaces books places for a club in a competition.
// PRE: ClubName and CompetitionName identify stored entities
// POST: On success the club's points, the competition's places and the booking
// ledger are committed together. Rejections are *booking.Rejection values.
// INVARIANT: points and places never go negative
func ExecutePurchasePlaces(ctx context.Context, input PurchasePlacesInput, deps PurchasePlacesDeps) (PurchasePlacesResult, error) {
	for attempt := 1; attempt <= maxPurchaseAttempts; attempt++ {
		c, err := lookupClub(ctx, deps.ClubStore, input.ClubName)
		if err != nil {
			return PurchasePlacesResult{}, err
		}
		comp, err := lookupCompetition(ctx, deps.CompetitionStore, input.CompetitionName)
		if err != nil {
			return PurchasePlacesResult{}, err
		}

		now := deps.Now()
		updatedClub, updatedComp, err := booking.ValidateAndApply(c, comp, input.Places, now, deps.Rules)
		if err != nil {
			slog.Info("booking_event", "event", "purchase_rejected", "club", c.Name, "competition", comp.Name,
				"requested", input.Places, "reason", err.Error())
			return PurchasePlacesResult{}, err
		}
		if input.Places == 0 {
			return PurchasePlacesResult{Club: c, Competition: comp}, nil
		}

		id := deps.GenerateID()
		b := booking.Booking{
			ID:              id,
			Reference:       booking.NewReference(comp.Name, c.Name, id),
			ClubName:        c.Name,
			CompetitionName: comp.Name,
			Places:          input.Places,
			PointsSpent:     c.Points - updatedClub.Points,
			CreatedAt:       now,
		}
		if err := b.Validate(); err != nil {
			return PurchasePlacesResult{}, err
		}

		err = deps.BookingStore.CommitPurchase(ctx, bookingStore.Purchase{
			Club:           updatedClub,
			Competition:    updatedComp,
			PreviousPoints: c.Points,
			PreviousPlaces: comp.NumberOfPlaces,
			Booking:        b,
		})
		if errors.Is(err, booking.ErrStalePurchase) {
			slog.Warn("booking_event", "event", "purchase_stale", "club", c.Name, "competition", comp.Name, "attempt", attempt)
			continue
		}
		if err != nil {
			return PurchasePlacesResult{}, fmt.Errorf("commit purchase: %w", err)
		}

		slog.Info("booking_event", "event", "purchase_committed", "reference", b.Reference, "club", c.Name,
			"competition", comp.Name, "places", b.Places, "points_left", updatedClub.Points, "places_left", updatedComp.NumberOfPlaces)

		// Best-effort confirmation; the booking stands regardless.
		if deps.EmailSender != nil {
			sendBookingConfirmation(ctx, deps.EmailSender, updatedClub, updatedComp, b)
		}

		return PurchasePlacesResult{Club: updatedClub, Competition: updatedComp, Booking: &b}, nil
	}
	return PurchasePlacesResult{}, fmt.Errorf("purchase gave up after %d attempts: %w", maxPurchaseAttempts, booking.ErrStalePurchase)
}

func sendBookingConfirmation(ctx context.Context, sender emailAdapter.Sender, c club.Club, comp competition.Competition, b booking.Booking) {
	body, err := renderEmail(confirmationTemplate, map[string]any{
		"Club":        c,
		"Competition": comp,
		"Booking":     b,
		"Date":        competition.FormatDate(comp.Date),
	})
	if err != nil {
		slog.Error("booking_email_failed", "reference", b.Reference, "error", err)
		return
	}
	_, err = sender.Send(ctx, emailAdapter.SendRequest{
		To:        []string{c.Email},
		Subject:   fmt.Sprintf("Booking confirmed: %s", comp.Name),
		HTML:      body,
		Kind:      emailAdapter.KindConfirmation,
		Reference: b.Reference,
	})
	if err != nil {
		slog.Error("booking_email_failed", "reference", b.Reference, "error", err)
	}
}
