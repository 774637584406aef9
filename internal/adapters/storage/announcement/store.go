package announcement

import (
	"context"

	domain "genesis/internal/domain/announcement"
)

// Store defines the persistence interface for announcements.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Announcement, error)
	Save(ctx context.Context, value domain.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeDrafts bool) ([]domain.Announcement, error)
	// ListVisibleTo returns published announcements whose audience admits the
	// given role, pinned entries first, then newest first.
	ListVisibleTo(ctx context.Context, role string) ([]domain.Announcement, error)
}
