package audit

import (
	"context"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/audit"
)

// Store persists audit events. Events are append-only; there is no
// update or delete path.
type Store interface {
	Save(ctx context.Context, event domain.Event) error
	// List returns events matching the filter, newest first.
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (domain.Event, error)
}

// Filter narrows List results. Nil fields match everything, so the audit
// page can combine any subset of the dropdowns.
type Filter struct {
	Category      *domain.Category
	Action        *domain.Action
	ActorUsername *string
	Severity      *domain.Severity
	ResourceID    *string
	FromDate      *string
	ToDate        *string
}

var _ Store = (*SQLiteStore)(nil)

// SQLDB is the database handle the store needs.
type SQLDB interface {
	storage.SQLDB
}
