package sheet

import (
	"errors"
	"fmt"
	"time"
)

// Dimension limits. The grid is deliberately small; it backs the in-app
// spreadsheet view, not a general workbook.
const (
	MaxRows = 1000
	MaxCols = 256
)

// Domain errors
var (
	ErrEmptyName    = errors.New("sheet name is required")
	ErrEmptyOwner   = errors.New("sheet owner is required")
	ErrBadDimension = errors.New("sheet dimensions must be positive and within limits")
	ErrOutOfBounds  = errors.New("cell reference is outside the sheet dimensions")
)

// Sheet represents one spreadsheet grid.
type Sheet struct {
	ID        string
	Name      string
	Owner     string // username
	Rows      int
	Cols      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cell is one populated cell of a sheet. Cells are sparse: absent cells are
// empty by definition and are never stored.
type Cell struct {
	SheetID string
	Row     int // 0-based
	Col     int // 0-based
	Value   string
}

// Validate checks if the Sheet has valid data.
// PRE: Sheet struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Sheet) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Owner == "" {
		return ErrEmptyOwner
	}
	if s.Rows <= 0 || s.Cols <= 0 || s.Rows > MaxRows || s.Cols > MaxCols {
		return ErrBadDimension
	}
	return nil
}

// InBounds reports whether the (row, col) pair addresses a cell inside the
// sheet's current dimensions.
// INVARIANT: Sheet fields are not mutated
func (s *Sheet) InBounds(row, col int) bool {
	return row >= 0 && row < s.Rows && col >= 0 && col < s.Cols
}

// Resize changes the sheet dimensions. Shrinking is allowed; cells that fall
// outside the new dimensions are dropped by the storage layer.
// PRE: rows and cols are positive and within limits
// POST: Rows/Cols updated, UpdatedAt set
func (s *Sheet) Resize(rows, cols int) error {
	if rows <= 0 || cols <= 0 || rows > MaxRows || cols > MaxCols {
		return ErrBadDimension
	}
	s.Rows = rows
	s.Cols = cols
	s.UpdatedAt = time.Now()
	return nil
}

// CellRef renders a (row, col) pair in A1 notation for display and logs.
// PRE: col >= 0
// POST: e.g. (0,0) -> "A1", (9,27) -> "AB10"
func CellRef(row, col int) string {
	name := ""
	c := col
	for {
		name = string(rune('A'+c%26)) + name
		c = c/26 - 1
		if c < 0 {
			break
		}
	}
	return fmt.Sprintf("%s%d", name, row+1)
}
