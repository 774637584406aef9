package search

import (
	"context"

	domain "genesis/internal/domain/search"
)

// Store defines the persistence interface for per-user search history.
type Store interface {
	// Record saves an entry and prunes the user's history to the retention cap.
	Record(ctx context.Context, value domain.Entry) error
	ListByUsername(ctx context.Context, username string, limit int) ([]domain.Entry, error)
	ClearByUsername(ctx context.Context, username string) error
}
