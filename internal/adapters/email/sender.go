package email

import (
	"context"
	"time"
)

// SendRequest describes one outgoing email.
type SendRequest struct {
	To      []string
	From    string // e.g. "Genesis Platform <noreply@genesis.example>"; empty uses the sender default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acknowledgement of an accepted send.
type SendResult struct {
	MessageID string // provider ID, stored as the outbox external ID
	SentAt    time.Time
}

// Sender is the delivery port the outbox executor writes to. ResendSender
// is the real implementation; NoopSender stands in when no key is set.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
