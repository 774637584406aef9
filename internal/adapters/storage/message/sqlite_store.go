package message

import (
	"context"
	"database/sql"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/message"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Message by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, sender, recipient, subject, body, read_at, created_at
		 FROM message WHERE id = ?`, id)
	return scanMessage(row.Scan)
}

// Save persists a Message to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message (id, sender, recipient, subject, body, read_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   sender=excluded.sender, recipient=excluded.recipient,
		   subject=excluded.subject, body=excluded.body,
		   read_at=excluded.read_at, created_at=excluded.created_at`,
		m.ID, m.Sender, m.Recipient, nullStr(m.Subject), m.Body,
		nullTime(m.ReadAt), m.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Message from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM message WHERE id = ?`, id)
	return err
}

// ListByRecipient retrieves Messages for a recipient, newest first.
// PRE: recipient is non-empty
// POST: Returns messages for the given recipient
func (s *SQLiteStore) ListByRecipient(ctx context.Context, recipient string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender, recipient, subject, body, read_at, created_at
		 FROM message WHERE recipient = ? ORDER BY created_at DESC`, recipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListByRecipientSince retrieves Messages created strictly after the cursor,
// oldest first, for incremental polling.
// PRE: recipient is non-empty
// POST: Returns new messages only
func (s *SQLiteStore) ListByRecipientSince(ctx context.Context, recipient string, since time.Time) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender, recipient, subject, body, read_at, created_at
		 FROM message WHERE recipient = ? AND created_at > ? ORDER BY created_at ASC`,
		recipient, since.Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListBySender retrieves Messages a user has sent, newest first.
// PRE: sender is non-empty
// POST: Returns messages from the given sender
func (s *SQLiteStore) ListBySender(ctx context.Context, sender string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender, recipient, subject, body, read_at, created_at
		 FROM message WHERE sender = ? ORDER BY created_at DESC`, sender)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// CountUnread counts unread messages for a recipient.
// PRE: recipient is non-empty
// POST: Returns count of unread messages
func (s *SQLiteStore) CountUnread(ctx context.Context, recipient string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE recipient = ? AND read_at IS NULL`, recipient).Scan(&count)
	return count, err
}

func scanMessage(scan func(dest ...interface{}) error) (domain.Message, error) {
	var m domain.Message
	var subject, readAt sql.NullString
	var createdAt string
	err := scan(&m.ID, &m.Sender, &m.Recipient, &subject, &m.Body, &readAt, &createdAt)
	if err != nil {
		return domain.Message{}, err
	}
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if subject.Valid {
		m.Subject = subject.String
	}
	if readAt.Valid {
		m.ReadAt, _ = time.Parse(timeLayout, readAt.String)
	}
	return m, nil
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
