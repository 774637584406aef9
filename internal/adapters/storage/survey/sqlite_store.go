package survey

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/survey"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new Survey store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const surveyColumns = `id, title, description, status, created_by, created_at, closed_at`

// GetByID retrieves a Survey by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Survey, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+surveyColumns+` FROM survey WHERE id = ?`, id)
	entity, err := scanSurvey(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Survey{}, fmt.Errorf("survey not found: %w", err)
	}
	return entity, err
}

// Save persists a Survey (insert or update).
// PRE: value has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Survey) error {
	var closedAt interface{}
	if !value.ClosedAt.IsZero() {
		closedAt = value.ClosedAt.Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO survey (id, title, description, status, created_by, created_at, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description,
		   status=excluded.status, closed_at=excluded.closed_at`,
		value.ID, value.Title, value.Description, value.Status, value.CreatedBy,
		value.CreatedAt.Format(timeLayout), closedAt)
	return err
}

// Delete removes a Survey and its responses.
// PRE: id is non-empty
// POST: Survey and dependent responses are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM survey_response WHERE survey_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM survey WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves surveys, newest first. Closed surveys are excluded unless requested.
func (s *SQLiteStore) List(ctx context.Context, includeClosed bool) ([]domain.Survey, error) {
	query := `SELECT ` + surveyColumns + ` FROM survey`
	if !includeClosed {
		query += ` WHERE status = '` + domain.StatusOpen + `'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Survey
	for rows.Next() {
		entity, err := scanSurvey(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// SaveResponse persists a survey response.
// PRE: value has been validated against an open survey
// POST: Response is persisted
func (s *SQLiteStore) SaveResponse(ctx context.Context, value domain.Response) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO survey_response (id, survey_id, respondent, answers, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		value.ID, value.SurveyID, value.Respondent, value.Answers,
		value.SubmittedAt.Format(timeLayout))
	return err
}

// ListResponses retrieves all responses for a survey in submission order.
func (s *SQLiteStore) ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, survey_id, respondent, answers, submitted_at
		 FROM survey_response WHERE survey_id = ? ORDER BY submitted_at`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Response
	for rows.Next() {
		var r domain.Response
		var submittedAt string
		if err := rows.Scan(&r.ID, &r.SurveyID, &r.Respondent, &r.Answers, &submittedAt); err != nil {
			return nil, err
		}
		r.SubmittedAt, _ = time.Parse(timeLayout, submittedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

// HasResponded reports whether a respondent already submitted to a survey.
func (s *SQLiteStore) HasResponded(ctx context.Context, surveyID, respondent string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM survey_response WHERE survey_id = ? AND respondent = ?`,
		surveyID, respondent).Scan(&count)
	return count > 0, err
}

// scanSurvey extracts a Survey from a row scanner function.
func scanSurvey(scan func(dest ...interface{}) error) (domain.Survey, error) {
	var entity domain.Survey
	var createdAt string
	var closedAt sql.NullString
	err := scan(&entity.ID, &entity.Title, &entity.Description, &entity.Status,
		&entity.CreatedBy, &createdAt, &closedAt)
	if err != nil {
		return domain.Survey{}, err
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if closedAt.Valid && closedAt.String != "" {
		entity.ClosedAt, _ = time.Parse(timeLayout, closedAt.String)
	}
	return entity, nil
}
