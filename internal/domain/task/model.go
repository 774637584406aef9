package task

import (
	"errors"
	"time"
)

// Task status constants
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// ValidPriorities contains all valid task priority values.
var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Domain errors
var (
	ErrEmptyTitle       = errors.New("task title is required")
	ErrEmptyAssignee    = errors.New("task assignee is required")
	ErrInvalidStatus    = errors.New("status must be one of: pending, in_progress, completed")
	ErrInvalidPriority  = errors.New("priority must be one of: low, medium, high")
	ErrAlreadyCompleted = errors.New("task is already completed")
)

// Task represents one item on a user's task list.
type Task struct {
	ID          string
	Assignee    string // username of the owner
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     time.Time // zero means no due date
	CreatedBy   string    // account ID of the creator
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// Validate checks if the Task has valid data.
// PRE: Task struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.Assignee == "" {
		return ErrEmptyAssignee
	}
	if !contains(ValidStatuses, t.Status) {
		return ErrInvalidStatus
	}
	if !contains(ValidPriorities, t.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// SetDefaults fills status and priority for a freshly created task.
// POST: Status is pending and Priority is medium unless already set
func (t *Task) SetDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// Complete marks the task as completed.
// PRE: Task is not already completed
// POST: Status is completed, CompletedAt and UpdatedAt are set
func (t *Task) Complete() error {
	if t.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	t.Status = StatusCompleted
	t.CompletedAt = time.Now()
	t.UpdatedAt = t.CompletedAt
	return nil
}

// Reopen flips a completed task back to pending.
// POST: Status is pending, CompletedAt is cleared
func (t *Task) Reopen() {
	t.Status = StatusPending
	t.CompletedAt = time.Time{}
	t.UpdatedAt = time.Now()
}

// IsOverdue returns true if the task has a due date in the past and is not completed.
// INVARIANT: Task fields are not mutated
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate.IsZero() || t.Status == StatusCompleted {
		return false
	}
	return now.After(t.DueDate)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
