package message

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptySender    = errors.New("sender username is required")
	ErrEmptyRecipient = errors.New("recipient username is required")
	ErrEmptyBody      = errors.New("message body cannot be empty")
	ErrSelfMessage    = errors.New("cannot send a message to yourself")
)

// Message represents a direct in-app message between two users.
type Message struct {
	ID        string
	Sender    string // username
	Recipient string // username
	Subject   string
	Body      string
	ReadAt    time.Time
	CreatedAt time.Time
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.Sender == "" {
		return ErrEmptySender
	}
	if m.Recipient == "" {
		return ErrEmptyRecipient
	}
	if m.Sender == m.Recipient {
		return ErrSelfMessage
	}
	if m.Body == "" {
		return ErrEmptyBody
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// IsRead returns true if the message has been read.
// INVARIANT: ReadAt field is not mutated
func (m *Message) IsRead() bool {
	return !m.ReadAt.IsZero()
}

// MarkRead records when the message was read.
// PRE: Message exists
// POST: ReadAt is set to current time if previously zero
func (m *Message) MarkRead() {
	if m.ReadAt.IsZero() {
		m.ReadAt = time.Now()
	}
}
