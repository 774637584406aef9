package preference

import (
	"context"

	domain "genesis/internal/domain/preference"
)

// Store persists Preferences state.
type Store interface {
	// GetByUsername returns the saved preferences for a user, or defaults
	// when no record exists.
	GetByUsername(ctx context.Context, username string) (domain.Preferences, error)
	Save(ctx context.Context, value domain.Preferences) error
	Delete(ctx context.Context, username string) error
}
