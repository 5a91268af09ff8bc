package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gudlft/internal/domain/club"
)

// ClubStoreForLogin defines the store interface needed by ShowSummary.
type ClubStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (club.Club, error)
}

// ShowSummaryInput carries input for the email login.
type ShowSummaryInput struct {
	Email string
}

// ShowSummaryDeps holds dependencies for ShowSummary.
type ShowSummaryDeps struct {
	ClubStore ClubStoreForLogin
}

// ErrClubNotFound is returned when no club has the submitted email.
var ErrClubNotFound = errors.New("no club registered with that email")

// ExecuteShowSummary identifies a club by its email. There is no password.
// PRE: none
// POST: Returns the club on success; ErrClubNotFound for unknown or empty emails
func ExecuteShowSummary(ctx context.Context, input ShowSummaryInput, deps ShowSummaryDeps) (club.Club, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		slog.Info("auth_event", "event", "login_failed", "reason", "empty_email")
		return club.Club{}, ErrClubNotFound
	}

	c, err := deps.ClubStore.GetByEmail(ctx, email)
	if errors.Is(err, club.ErrNotFound) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return club.Club{}, ErrClubNotFound
	}
	if err != nil {
		return club.Club{}, fmt.Errorf("look up club by email: %w", err)
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "club", c.Name)
	return c, nil
}
