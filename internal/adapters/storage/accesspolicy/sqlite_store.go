package accesspolicy

import (
	"context"
	"database/sql"
	"fmt"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/accesspolicy"
)

const policyColumns = "page, description, public, allow_platform_admin, allow_user_admin, allow_user, allow_guest"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new PagePolicy store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByPage retrieves a policy by page identifier.
// PRE: page is non-empty
// POST: Returns the policy or an error if not found
func (s *SQLiteStore) GetByPage(ctx context.Context, page string) (domain.PagePolicy, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+policyColumns+" FROM page_policy WHERE page = ?", page)
	entity, err := scanPolicy(row.Scan)
	if err == sql.ErrNoRows {
		return domain.PagePolicy{}, fmt.Errorf("page policy not found: %w", err)
	}
	return entity, err
}

// Save persists a policy (insert or update).
// PRE: value has been validated
// POST: Policy is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.PagePolicy) error {
	query := `INSERT INTO page_policy (` + policyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(page) DO UPDATE SET
			description=excluded.description,
			public=excluded.public,
			allow_platform_admin=excluded.allow_platform_admin,
			allow_user_admin=excluded.allow_user_admin,
			allow_user=excluded.allow_user,
			allow_guest=excluded.allow_guest`
	_, err := s.db.ExecContext(ctx, query,
		value.Page,
		value.Description,
		boolToInt(value.Public),
		boolToInt(value.AllowPlatformAdmin),
		boolToInt(value.AllowUserAdmin),
		boolToInt(value.AllowUser),
		boolToInt(value.AllowGuest),
	)
	return err
}

// Delete removes a policy. The gatekeeper then denies the page to everyone
// except Genesis Admin.
// PRE: page is non-empty
// POST: Policy with given page is removed
func (s *SQLiteStore) Delete(ctx context.Context, page string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM page_policy WHERE page = ?", page)
	return err
}

// List retrieves all policies ordered by page.
// PRE: none
// POST: Returns all policies
func (s *SQLiteStore) List(ctx context.Context) ([]domain.PagePolicy, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+policyColumns+" FROM page_policy ORDER BY page")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.PagePolicy
	for rows.Next() {
		entity, err := scanPolicy(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// AsMap returns all policies keyed by page.
// PRE: none
// POST: Returns a page -> policy map for Decide
func (s *SQLiteStore) AsMap(ctx context.Context) (map[string]domain.PagePolicy, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	policies := make(map[string]domain.PagePolicy, len(list))
	for _, p := range list {
		policies[p.Page] = p
	}
	return policies, nil
}

// scanPolicy extracts a PagePolicy from a row scanner function.
func scanPolicy(scan func(dest ...interface{}) error) (domain.PagePolicy, error) {
	var entity domain.PagePolicy
	var public, platform, userAdmin, user, guest int
	err := scan(
		&entity.Page,
		&entity.Description,
		&public,
		&platform,
		&userAdmin,
		&user,
		&guest,
	)
	if err != nil {
		return domain.PagePolicy{}, err
	}
	entity.Public = public != 0
	entity.AllowPlatformAdmin = platform != 0
	entity.AllowUserAdmin = userAdmin != 0
	entity.AllowUser = user != 0
	entity.AllowGuest = guest != 0
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
