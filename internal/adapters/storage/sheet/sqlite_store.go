package sheet

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"genesis/internal/adapters/storage"
	domain "genesis/internal/domain/sheet"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new Sheet store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Sheet by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Sheet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner, rows, cols, created_at, updated_at FROM sheet WHERE id = ?`, id)
	entity, err := scanSheet(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Sheet{}, fmt.Errorf("sheet not found: %w", err)
	}
	return entity, err
}

// Save persists a Sheet (insert or update).
// PRE: value has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Sheet) error {
	var updatedAt interface{}
	if !value.UpdatedAt.IsZero() {
		updatedAt = value.UpdatedAt.Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sheet (id, name, owner, rows, cols, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, rows=excluded.rows, cols=excluded.cols,
		   updated_at=excluded.updated_at`,
		value.ID, value.Name, value.Owner, value.Rows, value.Cols,
		value.CreatedAt.Format(timeLayout), updatedAt)
	return err
}

// Delete removes a Sheet and its cells.
// PRE: id is non-empty
// POST: Sheet and dependent cells are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Explicit cell delete in case foreign_keys is off for this connection.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_cell WHERE sheet_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListByOwner retrieves all sheets owned by a user, newest first.
// PRE: owner is non-empty
// POST: Returns matching sheets
func (s *SQLiteStore) ListByOwner(ctx context.Context, owner string) ([]domain.Sheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner, rows, cols, created_at, updated_at
		 FROM sheet WHERE owner = ? ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Sheet
	for rows.Next() {
		entity, err := scanSheet(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// SetCell writes one cell value (insert or overwrite).
// PRE: cell is in bounds for its sheet (checked by the caller)
// POST: Cell is persisted
func (s *SQLiteStore) SetCell(ctx context.Context, cell domain.Cell) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sheet_cell (sheet_id, row, col, value)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(sheet_id, row, col) DO UPDATE SET value=excluded.value`,
		cell.SheetID, cell.Row, cell.Col, cell.Value)
	return err
}

// ClearCell removes one cell. Clearing an absent cell is a no-op.
// PRE: sheetID is non-empty
// POST: Cell is removed if it existed
func (s *SQLiteStore) ClearCell(ctx context.Context, sheetID string, row, col int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_cell WHERE sheet_id = ? AND row = ? AND col = ?`, sheetID, row, col)
	return err
}

// ListCells retrieves all populated cells of a sheet in row-major order.
// PRE: sheetID is non-empty
// POST: Returns the sparse cell list
func (s *SQLiteStore) ListCells(ctx context.Context, sheetID string) ([]domain.Cell, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sheet_id, row, col, value FROM sheet_cell
		 WHERE sheet_id = ? ORDER BY row, col`, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []domain.Cell
	for rows.Next() {
		var c domain.Cell
		if err := rows.Scan(&c.SheetID, &c.Row, &c.Col, &c.Value); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// PruneCellsOutside drops cells beyond the given dimensions.
// PRE: rows and cols are the sheet's new dimensions
// POST: Only in-bounds cells remain
func (s *SQLiteStore) PruneCellsOutside(ctx context.Context, sheetID string, rows, cols int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_cell WHERE sheet_id = ? AND (row >= ? OR col >= ?)`, sheetID, rows, cols)
	return err
}

// scanSheet extracts a Sheet from a row scanner function.
func scanSheet(scan func(dest ...interface{}) error) (domain.Sheet, error) {
	var entity domain.Sheet
	var createdAt string
	var updatedAt sql.NullString
	err := scan(&entity.ID, &entity.Name, &entity.Owner, &entity.Rows, &entity.Cols, &createdAt, &updatedAt)
	if err != nil {
		return domain.Sheet{}, err
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return entity, nil
}
