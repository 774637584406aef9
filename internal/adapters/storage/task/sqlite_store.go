package task

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/task"
)

const taskColumns = "id, assignee, title, description, status, priority, due_date, created_by, created_at, updated_at, completed_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new Task store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Task by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM task WHERE id = ?", id)
	entity, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Task{}, fmt.Errorf("task not found: %w", err)
	}
	return entity, err
}

// Save persists a Task (insert or update).
// PRE: value has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Task) error {
	query := `INSERT INTO task (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			assignee=excluded.assignee,
			title=excluded.title,
			description=excluded.description,
			status=excluded.status,
			priority=excluded.priority,
			due_date=excluded.due_date,
			updated_at=excluded.updated_at,
			completed_at=excluded.completed_at`
	_, err := s.db.ExecContext(ctx, query,
		value.ID,
		value.Assignee,
		value.Title,
		value.Description,
		value.Status,
		value.Priority,
		nullableTime(value.DueDate),
		value.CreatedBy,
		value.CreatedAt.Format(timeFormat),
		nullableTime(value.UpdatedAt),
		nullableTime(value.CompletedAt),
	)
	return err
}

// Delete removes a Task.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM task WHERE id = ?", id)
	return err
}

// ListByAssignee retrieves a user's tasks, newest first.
// PRE: assignee is non-empty
// POST: Returns matching tasks
func (s *SQLiteStore) ListByAssignee(ctx context.Context, assignee string, includeCompleted bool) ([]domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM task WHERE assignee = ?"
	if !includeCompleted {
		query += " AND status != 'completed'"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, assignee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListOpen retrieves open (non-completed) tasks across all users.
// PRE: limit > 0
// POST: Returns up to limit tasks, newest first
func (s *SQLiteStore) ListOpen(ctx context.Context, limit int) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM task WHERE status != 'completed' ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// CountOpenByAssignee returns the number of open tasks for a user.
// PRE: assignee is non-empty
// POST: Returns count >= 0
func (s *SQLiteStore) CountOpenByAssignee(ctx context.Context, assignee string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM task WHERE assignee = ? AND status != 'completed'", assignee).Scan(&count)
	return count, err
}

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

func collectTasks(rows *sql.Rows) ([]domain.Task, error) {
	var results []domain.Task
	for rows.Next() {
		entity, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanTask extracts a Task from a row scanner function.
func scanTask(scan func(dest ...interface{}) error) (domain.Task, error) {
	var entity domain.Task
	var createdAt string
	var dueDate, updatedAt, completedAt sql.NullString
	err := scan(
		&entity.ID,
		&entity.Assignee,
		&entity.Title,
		&entity.Description,
		&entity.Status,
		&entity.Priority,
		&dueDate,
		&entity.CreatedBy,
		&createdAt,
		&updatedAt,
		&completedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	entity.DueDate = parseNullTime(dueDate)
	entity.UpdatedAt = parseNullTime(updatedAt)
	entity.CompletedAt = parseNullTime(completedAt)
	return entity, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeFormat)
}

func parseNullTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := parseTime(s.String)
	return t
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
