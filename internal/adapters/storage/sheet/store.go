package sheet

import (
	"context"

	domain "genesis/internal/domain/sheet"
)

// Store persists Sheet and Cell state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Sheet, error)
	Save(ctx context.Context, value domain.Sheet) error
	// Delete removes the sheet and, via cascade, all of its cells.
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, owner string) ([]domain.Sheet, error)

	SetCell(ctx context.Context, cell domain.Cell) error
	ClearCell(ctx context.Context, sheetID string, row, col int) error
	ListCells(ctx context.Context, sheetID string) ([]domain.Cell, error)
	// PruneCellsOutside drops cells beyond the given dimensions, used after
	// a sheet shrinks.
	PruneCellsOutside(ctx context.Context, sheetID string, rows, cols int) error
}
