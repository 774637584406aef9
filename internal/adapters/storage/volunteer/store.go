package volunteer

import (
	"context"

	domain "genesis/internal/domain/volunteer"
)

// Store defines the persistence interface for volunteers.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (domain.Volunteer, error)
	Save(ctx context.Context, value domain.Volunteer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeArchived bool) ([]domain.Volunteer, error)
	ListByTeam(ctx context.Context, team string) ([]domain.Volunteer, error)
	CountByTeam(ctx context.Context) (map[string]int, error)
}
