package search

import (
	"context"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/search"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new search history store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Record saves a search entry and drops the user's oldest entries beyond the
// retention cap.
// PRE: value has been validated
// POST: Entry is persisted, at most MaxEntriesPerUser rows remain for the user
func (s *SQLiteStore) Record(ctx context.Context, value domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO search_history (id, username, query, page, searched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		value.ID, value.Username, value.Query, value.Page,
		value.SearchedAt.Format(timeLayout))
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM search_history WHERE username = ? AND id NOT IN (
		   SELECT id FROM search_history WHERE username = ?
		   ORDER BY searched_at DESC LIMIT ?)`,
		value.Username, value.Username, domain.MaxEntriesPerUser)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListByUsername retrieves a user's recent searches, newest first.
func (s *SQLiteStore) ListByUsername(ctx context.Context, username string, limit int) ([]domain.Entry, error) {
	if limit <= 0 || limit > domain.MaxEntriesPerUser {
		limit = domain.MaxEntriesPerUser
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, query, page, searched_at FROM search_history
		 WHERE username = ? ORDER BY searched_at DESC LIMIT ?`, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var searchedAt string
		if err := rows.Scan(&e.ID, &e.Username, &e.Query, &e.Page, &searchedAt); err != nil {
			return nil, err
		}
		e.SearchedAt, _ = time.Parse(timeLayout, searchedAt)
		results = append(results, e)
	}
	return results, rows.Err()
}

// ClearByUsername removes all of a user's search history.
func (s *SQLiteStore) ClearByUsername(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE username = ?`, username)
	return err
}
