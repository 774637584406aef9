package announcement

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/announcement"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const announcementColumns = `id, status, title, body, audience, created_by, published_by, pinned, pinned_at, created_at, published_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new Announcement store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Announcement by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Announcement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcement WHERE id = ?`, id)
	entity, err := scanAnnouncement(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Announcement{}, fmt.Errorf("announcement not found: %w", err)
	}
	return entity, err
}

// Save persists an Announcement (insert or update).
// PRE: value has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Announcement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcement (`+announcementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, title=excluded.title, body=excluded.body,
		   audience=excluded.audience, published_by=excluded.published_by,
		   pinned=excluded.pinned, pinned_at=excluded.pinned_at,
		   published_at=excluded.published_at`,
		value.ID, value.Status, value.Title, value.Body, value.Audience,
		value.CreatedBy, nullStr(value.PublishedBy), boolToInt(value.Pinned),
		nullTime(value.PinnedAt), value.CreatedAt.Format(timeLayout),
		nullTime(value.PublishedAt))
	return err
}

// Delete removes an Announcement.
// PRE: id is non-empty
// POST: Announcement is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM announcement WHERE id = ?`, id)
	return err
}

// List retrieves announcements, newest first. Drafts are excluded unless requested.
func (s *SQLiteStore) List(ctx context.Context, includeDrafts bool) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcement`
	if !includeDrafts {
		query += ` WHERE status = '` + domain.StatusPublished + `'`
	}
	query += ` ORDER BY created_at DESC`
	return s.queryMany(ctx, query)
}

// ListVisibleTo returns published announcements the given role may see,
// pinned first. Audience filtering uses role privilege, which lives in the
// domain, so the role check happens in Go rather than SQL.
func (s *SQLiteStore) ListVisibleTo(ctx context.Context, role string) ([]domain.Announcement, error) {
	all, err := s.queryMany(ctx,
		`SELECT `+announcementColumns+` FROM announcement
		 WHERE status = '`+domain.StatusPublished+`' ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	var visible []domain.Announcement
	for _, a := range all {
		if a.VisibleTo(role) {
			visible = append(visible, a)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Pinned && !visible[j].Pinned
	})
	return visible, nil
}

func (s *SQLiteStore) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Announcement
	for rows.Next() {
		entity, err := scanAnnouncement(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAnnouncement extracts an Announcement from a row scanner function.
func scanAnnouncement(scan func(dest ...interface{}) error) (domain.Announcement, error) {
	var entity domain.Announcement
	var publishedBy, pinnedAt, publishedAt sql.NullString
	var createdAt string
	var pinned int
	err := scan(&entity.ID, &entity.Status, &entity.Title, &entity.Body,
		&entity.Audience, &entity.CreatedBy, &publishedBy, &pinned,
		&pinnedAt, &createdAt, &publishedAt)
	if err != nil {
		return domain.Announcement{}, err
	}
	entity.PublishedBy = publishedBy.String
	entity.Pinned = pinned != 0
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if pinnedAt.Valid && pinnedAt.String != "" {
		entity.PinnedAt, _ = time.Parse(timeLayout, pinnedAt.String)
	}
	if publishedAt.Valid && publishedAt.String != "" {
		entity.PublishedAt, _ = time.Parse(timeLayout, publishedAt.String)
	}
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullStr(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
