// Package email delivers booking confirmations and competition reminders.
package email

import (
	"context"
	"errors"
	"time"
)

// Kind tags an outgoing email so deliveries can be filtered at the provider.
type Kind string

const (
	KindConfirmation Kind = "booking_confirmation"
	KindReminder     Kind = "competition_reminder"
)

var (
	ErrNoRecipient = errors.New("email has no recipient")
	ErrNoSubject   = errors.New("email has no subject")
)

// SendRequest is one email to a club.
type SendRequest struct {
	To        []string
	Subject   string
	HTML      string
	Kind      Kind
	Reference string // booking reference; empty for reminders
}

// Validate checks that the request can be delivered.
func (r SendRequest) Validate() error {
	if len(r.To) == 0 || r.To[0] == "" {
		return ErrNoRecipient
	}
	if r.Subject == "" {
		return ErrNoSubject
	}
	return nil
}

// SendResult is the provider's receipt for an accepted email.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers emails. SendBatch returns one result per accepted request,
// in request order, even when it also returns an error.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
