package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"genesis/internal/domain/account"
	"genesis/internal/domain/task"

	"github.com/google/uuid"
)

// TaskStoreForManage defines the store interface needed by task orchestrators.
type TaskStoreForManage interface {
	GetByID(ctx context.Context, id string) (task.Task, error)
	Save(ctx context.Context, t task.Task) error
	Delete(ctx context.Context, id string) error
}

// TaskDeps holds dependencies for task orchestrators.
type TaskDeps struct {
	TaskStore    TaskStoreForManage
	AccountStore AccountStoreForSend
}

// CreateTaskInput carries input for the create-task orchestrator.
type CreateTaskInput struct {
	Assignee    string
	Title       string
	Description string
	Priority    string
	DueDate     time.Time
	CreatedBy   string
}

var (
	ErrAssigneeNotFound = errors.New("assignee does not exist")
	ErrNotTaskOwner     = errors.New("task belongs to another user")
)

// ExecuteCreateTask validates and persists a new task.
// PRE: CreatedBy is an authenticated username
// POST: Task is persisted in pending status
func ExecuteCreateTask(ctx context.Context, input CreateTaskInput, deps TaskDeps) (string, error) {
	if _, err := deps.AccountStore.GetByUsername(ctx, input.Assignee); err != nil {
		return "", ErrAssigneeNotFound
	}

	t := task.Task{
		ID:          uuid.New().String(),
		Assignee:    input.Assignee,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now(),
	}
	t.SetDefaults()
	if err := t.Validate(); err != nil {
		return "", err
	}

	if err := deps.TaskStore.Save(ctx, t); err != nil {
		return "", err
	}

	slog.Info("task_event", "event", "task_created", "task_id", t.ID, "assignee", t.Assignee)
	return t.ID, nil
}

// UpdateTaskInput carries the editable fields for an existing task. Empty
// strings and zero times leave the stored value unchanged.
type UpdateTaskInput struct {
	TaskID      string
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     time.Time
}

// ExecuteUpdateTask edits a task's fields in place.
// PRE: actor is the task's assignee, or an admin role
// POST: Changed fields persisted; completion is not toggled here
func ExecuteUpdateTask(ctx context.Context, input UpdateTaskInput, actor account.Account, deps TaskDeps) error {
	t, err := deps.TaskStore.GetByID(ctx, input.TaskID)
	if err != nil {
		return err
	}
	if t.Assignee != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotTaskOwner
	}

	if input.Title != "" {
		t.Title = input.Title
	}
	if input.Description != "" {
		t.Description = input.Description
	}
	if input.Priority != "" {
		t.Priority = input.Priority
	}
	if input.Status != "" && input.Status != task.StatusCompleted {
		t.Status = input.Status
	}
	if !input.DueDate.IsZero() {
		t.DueDate = input.DueDate
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := deps.TaskStore.Save(ctx, t); err != nil {
		return err
	}
	slog.Info("task_event", "event", "task_updated", "task_id", t.ID, "actor", actor.Username)
	return nil
}

// ExecuteCompleteTask marks a task as completed.
// PRE: actor is the task's assignee, or an admin role
// POST: Task status is completed with CompletedAt set
func ExecuteCompleteTask(ctx context.Context, taskID string, actor account.Account, deps TaskDeps) error {
	t, err := deps.TaskStore.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if t.Assignee != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotTaskOwner
	}
	if err := t.Complete(); err != nil {
		return err
	}
	if err := deps.TaskStore.Save(ctx, t); err != nil {
		return err
	}
	slog.Info("task_event", "event", "task_completed", "task_id", t.ID, "actor", actor.Username)
	return nil
}

// ExecuteReopenTask returns a completed task to pending.
// PRE: actor is the task's assignee, or an admin role
// POST: Task status is pending with CompletedAt cleared
func ExecuteReopenTask(ctx context.Context, taskID string, actor account.Account, deps TaskDeps) error {
	t, err := deps.TaskStore.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if t.Assignee != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotTaskOwner
	}
	t.Reopen()
	if err := deps.TaskStore.Save(ctx, t); err != nil {
		return err
	}
	slog.Info("task_event", "event", "task_reopened", "task_id", t.ID, "actor", actor.Username)
	return nil
}

// ExecuteDeleteTask removes a task.
// PRE: actor is the task's assignee, its creator, or an admin role
// POST: Task is removed
func ExecuteDeleteTask(ctx context.Context, taskID string, actor account.Account, deps TaskDeps) error {
	t, err := deps.TaskStore.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if t.Assignee != actor.Username && t.CreatedBy != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotTaskOwner
	}
	if err := deps.TaskStore.Delete(ctx, taskID); err != nil {
		return err
	}
	slog.Info("task_event", "event", "task_deleted", "task_id", taskID, "actor", actor.Username)
	return nil
}
