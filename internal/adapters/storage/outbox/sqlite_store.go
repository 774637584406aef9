package outbox

import (
	"context"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/outbox"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const entryColumns = `id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, error_message`

// SQLiteStore implements the outbox Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an outbox entry by its ID.
// PRE: id is non-empty
// POST: Returns the entry or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM outbox WHERE id = ?`, id)
	return scanEntry(row.Scan)
}

// Save persists an outbox entry (insert or update).
// PRE: entry has been validated
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	lastAttemptedAt := ""
	if !e.LastAttemptedAt.IsZero() {
		lastAttemptedAt = e.LastAttemptedAt.Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   action_type=excluded.action_type, payload=excluded.payload, status=excluded.status,
		   attempts=excluded.attempts, max_attempts=excluded.max_attempts,
		   last_attempted_at=excluded.last_attempted_at, external_id=excluded.external_id,
		   error_message=excluded.error_message`,
		e.ID, e.ActionType, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		lastAttemptedAt, e.CreatedAt.Format(timeLayout), e.ExternalID, e.ErrorMessage)
	return err
}

// ListPending returns entries awaiting delivery (pending or retrying),
// oldest first.
// PRE: limit > 0
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.queryMany(ctx,
		`SELECT `+entryColumns+` FROM outbox
		 WHERE status IN (?, ?) ORDER BY created_at ASC LIMIT ?`,
		domain.StatusPending, domain.StatusRetrying, limit)
}

// ListFailed returns entries that exhausted their attempts, most recent
// attempt first.
// PRE: limit > 0
func (s *SQLiteStore) ListFailed(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.queryMany(ctx,
		`SELECT `+entryColumns+` FROM outbox
		 WHERE status = ? AND attempts >= max_attempts
		 ORDER BY last_attempted_at DESC LIMIT ?`,
		domain.StatusFailed, limit)
}

// ListByActionType returns entries of one action type, optionally narrowed to
// a status, oldest first.
// PRE: actionType is non-empty
func (s *SQLiteStore) ListByActionType(ctx context.Context, actionType string, status string, limit int) ([]domain.Entry, error) {
	if status != "" {
		return s.queryMany(ctx,
			`SELECT `+entryColumns+` FROM outbox
			 WHERE action_type = ? AND status = ? ORDER BY created_at ASC LIMIT ?`,
			actionType, status, limit)
	}
	return s.queryMany(ctx,
		`SELECT `+entryColumns+` FROM outbox
		 WHERE action_type = ? ORDER BY created_at ASC LIMIT ?`,
		actionType, limit)
}

// Delete removes an outbox entry.
// PRE: id is non-empty and the entry is in a terminal state
// POST: Entry is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// scanEntry extracts an Entry from a row scanner function.
func scanEntry(scan func(dest ...interface{}) error) (domain.Entry, error) {
	var e domain.Entry
	var createdAt, lastAttemptedAt string
	err := scan(&e.ID, &e.ActionType, &e.Payload, &e.Status, &e.Attempts, &e.MaxAttempts,
		&lastAttemptedAt, &createdAt, &e.ExternalID, &e.ErrorMessage)
	if err != nil {
		return domain.Entry{}, err
	}
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if lastAttemptedAt != "" {
		e.LastAttemptedAt, _ = time.Parse(timeLayout, lastAttemptedAt)
	}
	return e, nil
}
