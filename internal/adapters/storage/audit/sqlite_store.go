package audit

import (
	"context"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/audit"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

const eventColumns = `id, timestamp, category, action, severity, actor_id, actor_username, actor_role, resource_id, resource_type, description, ip_address, user_agent, metadata`

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event is valid
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.Format(dateLayout), string(event.Category), string(event.Action),
		string(event.Severity), event.ActorID, event.ActorUsername, event.ActorRole,
		event.ResourceID, event.ResourceType, event.Description, event.IPAddress, event.UserAgent, event.Metadata)
	return err
}

// List returns audit events with optional filtering.
// PRE: limit > 0
// POST: Returns events ordered by timestamp desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM audit_event WHERE 1=1`
	args := []interface{}{}

	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*filter.Category))
	}
	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.ActorUsername != nil {
		query += " AND actor_username = ?"
		args = append(args, *filter.ActorUsername)
	}
	if filter.Severity != nil {
		query += " AND severity = ?"
		args = append(args, string(*filter.Severity))
	}
	if filter.ResourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *filter.ResourceID)
	}
	if filter.FromDate != nil {
		query += " AND timestamp >= ?"
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		query += " AND timestamp <= ?"
		args = append(args, *filter.ToDate)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID retrieves a specific audit event.
// PRE: id is non-empty
// POST: Returns the event or error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM audit_event WHERE id = ?`, id)
	return scanEvent(row.Scan)
}

// scanEvent extracts an Event from a row scanner function.
func scanEvent(scan func(dest ...interface{}) error) (domain.Event, error) {
	var e domain.Event
	var timestamp string
	err := scan(&e.ID, &timestamp, &e.Category, &e.Action, &e.Severity, &e.ActorID, &e.ActorUsername, &e.ActorRole, &e.ResourceID, &e.ResourceType, &e.Description, &e.IPAddress, &e.UserAgent, &e.Metadata)
	if err != nil {
		return domain.Event{}, err
	}
	e.Timestamp, _ = time.Parse(dateLayout, timestamp)
	return e, nil
}
