package preference

import (
	"context"
	"database/sql"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/preference"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new Preferences store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves preferences for a user.
// PRE: username is non-empty
// POST: Returns the saved record, or Defaults(username) if none exists
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Preferences, error) {
	var p domain.Preferences
	var notifications int
	err := s.db.QueryRowContext(ctx,
		`SELECT username, theme, font_family, notifications, notification_email, notification_phone
		 FROM preferences WHERE username = ?`, username,
	).Scan(&p.Username, &p.Theme, &p.FontFamily, &notifications, &p.NotificationEmail, &p.NotificationPhone)
	if err == sql.ErrNoRows {
		return domain.Defaults(username), nil
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	p.Notifications = notifications != 0
	return p, nil
}

// Save inserts or updates a preferences record.
// PRE: value has been validated
// POST: Record is persisted under value.Username
func (s *SQLiteStore) Save(ctx context.Context, value domain.Preferences) error {
	notifications := 0
	if value.Notifications {
		notifications = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (username, theme, font_family, notifications, notification_email, notification_phone)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
			theme=excluded.theme,
			font_family=excluded.font_family,
			notifications=excluded.notifications,
			notification_email=excluded.notification_email,
			notification_phone=excluded.notification_phone`,
		value.Username, value.Theme, value.FontFamily, notifications,
		value.NotificationEmail, value.NotificationPhone,
	)
	return err
}

// Delete removes a preferences record.
// PRE: username is non-empty
// POST: Record for username is removed; reads fall back to defaults
func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM preferences WHERE username = ?", username)
	return err
}
