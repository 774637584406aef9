package message

import (
	"context"
	"time"

	domain "genesis/internal/domain/message"
)

// Store persists Message state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Message, error)
	Save(ctx context.Context, value domain.Message) error
	Delete(ctx context.Context, id string) error
	ListByRecipient(ctx context.Context, recipient string) ([]domain.Message, error)
	// ListByRecipientSince supports the polling API: only messages created
	// strictly after the cursor are returned, oldest first.
	ListByRecipientSince(ctx context.Context, recipient string, since time.Time) ([]domain.Message, error)
	ListBySender(ctx context.Context, sender string) ([]domain.Message, error)
	CountUnread(ctx context.Context, recipient string) (int, error)
}
