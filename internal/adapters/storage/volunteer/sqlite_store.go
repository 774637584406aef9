package volunteer

import (
	"context"
	"database/sql"
	"fmt"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/volunteer"
)

const volunteerColumns = `id, account_id, email, name, team, status`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new Volunteer store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Volunteer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Volunteer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+volunteerColumns+` FROM volunteer WHERE id = ?`, id)
	entity, err := scanVolunteer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Volunteer{}, fmt.Errorf("volunteer not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Volunteer by email address.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Volunteer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+volunteerColumns+` FROM volunteer WHERE email = ?`, email)
	entity, err := scanVolunteer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Volunteer{}, fmt.Errorf("volunteer not found: %w", err)
	}
	return entity, err
}

// Save persists a Volunteer (insert or update).
// PRE: value has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Volunteer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO volunteer (`+volunteerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   account_id=excluded.account_id, email=excluded.email,
		   name=excluded.name, team=excluded.team, status=excluded.status`,
		value.ID, value.AccountID, value.Email, value.Name, value.Team, value.Status)
	return err
}

// Delete removes a Volunteer.
// PRE: id is non-empty
// POST: Volunteer is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM volunteer WHERE id = ?`, id)
	return err
}

// List retrieves volunteers ordered by name. Archived entries are excluded
// unless requested.
func (s *SQLiteStore) List(ctx context.Context, includeArchived bool) ([]domain.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteer`
	if !includeArchived {
		query += ` WHERE status != '` + domain.StatusArchived + `'`
	}
	query += ` ORDER BY name`
	return s.queryMany(ctx, query)
}

// ListByTeam retrieves active volunteers on a team, ordered by name.
func (s *SQLiteStore) ListByTeam(ctx context.Context, team string) ([]domain.Volunteer, error) {
	return s.queryMany(ctx,
		`SELECT `+volunteerColumns+` FROM volunteer
		 WHERE team = ? AND status = '`+domain.StatusActive+`' ORDER BY name`, team)
}

// CountByTeam returns active volunteer counts keyed by team.
func (s *SQLiteStore) CountByTeam(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team, COUNT(*) FROM volunteer
		 WHERE status = '`+domain.StatusActive+`' GROUP BY team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var team string
		var count int
		if err := rows.Scan(&team, &count); err != nil {
			return nil, err
		}
		counts[team] = count
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.Volunteer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Volunteer
	for rows.Next() {
		entity, err := scanVolunteer(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanVolunteer extracts a Volunteer from a row scanner function.
func scanVolunteer(scan func(dest ...interface{}) error) (domain.Volunteer, error) {
	var entity domain.Volunteer
	var accountID sql.NullString
	err := scan(&entity.ID, &accountID, &entity.Email, &entity.Name, &entity.Team, &entity.Status)
	if err != nil {
		return domain.Volunteer{}, err
	}
	entity.AccountID = accountID.String
	return entity, nil
}
