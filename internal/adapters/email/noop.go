package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs emails instead of delivering them and keeps every
// accepted request for inspection.
type NoopSender struct {
	mu   sync.Mutex
	sent []SendRequest
	seq  int
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records req. Invalid requests are rejected like a real provider would.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.seq++
	id := fmt.Sprintf("noop-%d", s.seq)
	s.mu.Unlock()

	slog.Info("email_sent", "provider", "noop", "message_id", id, "to", req.To, "subject", req.Subject, "kind", req.Kind)
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}

// SendBatch records every valid request and skips the rest.
func (s *NoopSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, err := s.Send(ctx, req)
		if err != nil {
			slog.Warn("email_skipped", "kind", req.Kind, "error", err)
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// Sent returns a copy of every accepted request.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SendRequest(nil), s.sent...)
}
