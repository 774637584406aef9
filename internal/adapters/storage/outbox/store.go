package outbox

import (
	"context"

	domain "genesis/internal/domain/outbox"
)

// Store persists outbox entries.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	// ListPending returns pending and retrying entries, oldest first, so
	// the processor drains in enqueue order.
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
	// ListFailed returns permanently failed entries, most recent attempt first.
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
	ListByActionType(ctx context.Context, actionType string, status string, limit int) ([]domain.Entry, error)
	// Delete removes an entry; callers only delete terminal entries.
	Delete(ctx context.Context, id string) error
}
