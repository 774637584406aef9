package task

import (
	"context"

	domain "genesis/internal/domain/task"
)

// Store persists Task state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Save(ctx context.Context, value domain.Task) error
	Delete(ctx context.Context, id string) error
	// ListByAssignee returns a user's tasks, newest first. Completed tasks
	// are included only when includeCompleted is true.
	ListByAssignee(ctx context.Context, assignee string, includeCompleted bool) ([]domain.Task, error)
	ListOpen(ctx context.Context, limit int) ([]domain.Task, error)
	CountOpenByAssignee(ctx context.Context, assignee string) (int, error)
}
