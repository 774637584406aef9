package outbox

import (
	"errors"
	"time"
)

// Entry lifecycle states.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Delivery channels. Email is the only wired executor today; sms entries
// sit in the outbox until a provider executor is registered.
const (
	ActionTypeEmail = "email"
	ActionTypeSMS   = "sms"
)

// DefaultMaxAttempts applies when an entry is created without a limit.
const DefaultMaxAttempts = 5

var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
)

// Entry is one queued external delivery, typically a notification email
// enqueued by the messaging flow, waiting to be sent or retried.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON, replayed by the executor on each attempt
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider's ID once delivered
	ErrorMessage    string
}

// Validate checks required fields and fills in the attempt limit default.
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether another delivery attempt is allowed. Failed
// entries stay retryable until the attempt limit is reached.
func (e *Entry) CanRetry() bool {
	if e.Attempts >= e.MaxAttempts {
		return false
	}
	return e.Status == StatusPending || e.Status == StatusRetrying || e.Status == StatusFailed
}

// IsTerminal reports whether the entry will never be attempted again.
func (e *Entry) IsTerminal() bool {
	if e.Status == StatusDone || e.Status == StatusAbandoned {
		return true
	}
	return e.Status == StatusFailed && e.Attempts >= e.MaxAttempts
}

// MarkAttempt records the start of a delivery attempt.
func (e *Entry) MarkAttempt() {
	e.Attempts++
	e.LastAttemptedAt = time.Now()
	e.Status = StatusRetrying
}

// MarkSuccess completes the entry and clears any earlier error.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records the error. The status flips to failed only once the
// attempt limit is exhausted; before that the entry remains retryable.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned takes the entry out of rotation permanently. Only the
// control panel's outbox view calls this.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}

// NextRetryDelay returns the exponential backoff for the next attempt,
// 2^attempts * baseDelay capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
