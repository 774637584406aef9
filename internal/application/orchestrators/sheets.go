package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"genesis/internal/domain/account"
	"genesis/internal/domain/sheet"

	"github.com/google/uuid"
)

// SheetStoreForManage defines the store interface needed by sheet orchestrators.
type SheetStoreForManage interface {
	GetByID(ctx context.Context, id string) (sheet.Sheet, error)
	Save(ctx context.Context, s sheet.Sheet) error
	Delete(ctx context.Context, id string) error
	SetCell(ctx context.Context, c sheet.Cell) error
	ClearCell(ctx context.Context, sheetID string, row, col int) error
	PruneCellsOutside(ctx context.Context, sheetID string, rows, cols int) error
}

// SheetDeps holds dependencies for sheet orchestrators.
type SheetDeps struct {
	SheetStore SheetStoreForManage
}

// CreateSheetInput carries input for the create-sheet orchestrator.
type CreateSheetInput struct {
	Name  string
	Owner string
	Rows  int
	Cols  int
}

var (
	ErrNotSheetOwner = errors.New("sheet belongs to another user")
	ErrCellOutside   = errors.New("cell is outside the sheet bounds")
)

// ExecuteCreateSheet validates and persists a new spreadsheet.
// PRE: Owner is an authenticated username
// POST: Empty sheet is persisted with the given dimensions
func ExecuteCreateSheet(ctx context.Context, input CreateSheetInput, deps SheetDeps) (string, error) {
	s := sheet.Sheet{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Owner:     input.Owner,
		Rows:      input.Rows,
		Cols:      input.Cols,
		CreatedAt: time.Now(),
	}
	if err := s.Validate(); err != nil {
		return "", err
	}

	if err := deps.SheetStore.Save(ctx, s); err != nil {
		return "", err
	}

	slog.Info("sheet_event", "event", "sheet_created", "sheet_id", s.ID, "owner", s.Owner)
	return s.ID, nil
}

// UpdateCellInput carries input for the update-cell orchestrator.
type UpdateCellInput struct {
	SheetID string
	Row     int
	Col     int
	Value   string
}

// ExecuteUpdateCell writes or clears one cell. An empty value clears the cell
// so the stored grid stays sparse.
// PRE: actor owns the sheet, or is an admin role
// POST: Cell value persisted, sheet UpdatedAt bumped
// INVARIANT: Cell coordinates stay within the sheet's dimensions
func ExecuteUpdateCell(ctx context.Context, input UpdateCellInput, actor account.Account, deps SheetDeps) error {
	s, err := deps.SheetStore.GetByID(ctx, input.SheetID)
	if err != nil {
		return err
	}
	if s.Owner != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotSheetOwner
	}
	if !s.InBounds(input.Row, input.Col) {
		return ErrCellOutside
	}

	if input.Value == "" {
		if err := deps.SheetStore.ClearCell(ctx, s.ID, input.Row, input.Col); err != nil {
			return err
		}
	} else {
		cell := sheet.Cell{SheetID: s.ID, Row: input.Row, Col: input.Col, Value: input.Value}
		if err := deps.SheetStore.SetCell(ctx, cell); err != nil {
			return err
		}
	}

	s.UpdatedAt = time.Now()
	return deps.SheetStore.Save(ctx, s)
}

// ExecuteResizeSheet changes a sheet's dimensions, dropping cells that fall
// outside the new bounds.
// PRE: actor owns the sheet, or is an admin role
// POST: Dimensions updated, out-of-bounds cells removed
func ExecuteResizeSheet(ctx context.Context, sheetID string, rows, cols int, actor account.Account, deps SheetDeps) error {
	s, err := deps.SheetStore.GetByID(ctx, sheetID)
	if err != nil {
		return err
	}
	if s.Owner != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotSheetOwner
	}
	if err := s.Resize(rows, cols); err != nil {
		return err
	}

	if err := deps.SheetStore.PruneCellsOutside(ctx, s.ID, rows, cols); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	if err := deps.SheetStore.Save(ctx, s); err != nil {
		return err
	}

	slog.Info("sheet_event", "event", "sheet_resized", "sheet_id", s.ID, "rows", rows, "cols", cols)
	return nil
}

// ExecuteDeleteSheet removes a sheet and its cells.
// PRE: actor owns the sheet, or is an admin role
// POST: Sheet and cells are removed
func ExecuteDeleteSheet(ctx context.Context, sheetID string, actor account.Account, deps SheetDeps) error {
	s, err := deps.SheetStore.GetByID(ctx, sheetID)
	if err != nil {
		return err
	}
	if s.Owner != actor.Username && !actor.IsAnyAdmin() {
		return ErrNotSheetOwner
	}
	if err := deps.SheetStore.Delete(ctx, sheetID); err != nil {
		return err
	}
	slog.Info("sheet_event", "event", "sheet_deleted", "sheet_id", sheetID, "actor", actor.Username)
	return nil
}
