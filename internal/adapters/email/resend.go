package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// batchLimit is the maximum number of emails Resend accepts per batch call.
const batchLimit = 100

// ResendSender delivers through the Resend API from one fixed address.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender for apiKey.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	p := &resend.SendEmailRequest{
		From:    s.from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	}
	if req.Kind != "" {
		p.Tags = append(p.Tags, resend.Tag{Name: "kind", Value: string(req.Kind)})
	}
	if req.Reference != "" {
		p.Tags = append(p.Tags, resend.Tag{Name: "reference", Value: req.Reference})
	}
	return p
}

// Send delivers one email.
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}
	slog.Info("email_sent", "provider", "resend", "message_id", sent.Id, "kind", req.Kind, "reference", req.Reference)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// SendBatch delivers reqs in chunks of batchLimit. Invalid requests are
// dropped before sending; a failed chunk stops the batch.
func (s *ResendSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	var valid []SendRequest
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			slog.Warn("email_skipped", "kind", req.Kind, "error", err)
			continue
		}
		valid = append(valid, req)
	}

	var results []SendResult
	for start := 0; start < len(valid); start += batchLimit {
		end := min(start+batchLimit, len(valid))

		batch := make([]*resend.SendEmailRequest, 0, end-start)
		for _, req := range valid[start:end] {
			batch = append(batch, s.params(req))
		}

		resp, err := s.client.Batch.SendWithContext(ctx, batch)
		if err != nil {
			return results, fmt.Errorf("resend batch send: %w", err)
		}
		for _, item := range resp.Data {
			results = append(results, SendResult{MessageID: item.Id, SentAt: time.Now()})
		}
		slog.Info("email_batch_sent", "provider", "resend", "count", end-start, "total_sent", len(results))
	}
	return results, nil
}
