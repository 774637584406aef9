package accesspolicy

import (
	"context"

	domain "genesis/internal/domain/accesspolicy"
)

// Store persists PagePolicy state.
type Store interface {
	GetByPage(ctx context.Context, page string) (domain.PagePolicy, error)
	Save(ctx context.Context, value domain.PagePolicy) error
	Delete(ctx context.Context, page string) error
	List(ctx context.Context) ([]domain.PagePolicy, error)
	// AsMap returns all policies keyed by page, for gatekeeper lookups.
	AsMap(ctx context.Context) (map[string]domain.PagePolicy, error)
}
