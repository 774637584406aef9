package orchestrators

import (
	"context"
	"errors"
	"testing"

	"genesis/internal/domain/account"
	"genesis/internal/domain/sheet"
)

type cellKey struct{ row, col int }

type mockSheetStore struct {
	sheets map[string]sheet.Sheet
	cells  map[string]map[cellKey]string
	pruned bool
}

func newMockSheetStore(sheets ...sheet.Sheet) *mockSheetStore {
	m := &mockSheetStore{
		sheets: make(map[string]sheet.Sheet),
		cells:  make(map[string]map[cellKey]string),
	}
	for _, s := range sheets {
		m.sheets[s.ID] = s
	}
	return m
}

func (m *mockSheetStore) GetByID(_ context.Context, id string) (sheet.Sheet, error) {
	s, ok := m.sheets[id]
	if !ok {
		return sheet.Sheet{}, errors.New("not found")
	}
	return s, nil
}

func (m *mockSheetStore) Save(_ context.Context, s sheet.Sheet) error {
	m.sheets[s.ID] = s
	return nil
}

func (m *mockSheetStore) Delete(_ context.Context, id string) error {
	delete(m.sheets, id)
	delete(m.cells, id)
	return nil
}

func (m *mockSheetStore) SetCell(_ context.Context, c sheet.Cell) error {
	if m.cells[c.SheetID] == nil {
		m.cells[c.SheetID] = make(map[cellKey]string)
	}
	m.cells[c.SheetID][cellKey{c.Row, c.Col}] = c.Value
	return nil
}

func (m *mockSheetStore) ClearCell(_ context.Context, sheetID string, row, col int) error {
	delete(m.cells[sheetID], cellKey{row, col})
	return nil
}

func (m *mockSheetStore) PruneCellsOutside(_ context.Context, sheetID string, rows, cols int) error {
	m.pruned = true
	for key := range m.cells[sheetID] {
		if key.row >= rows || key.col >= cols {
			delete(m.cells[sheetID], key)
		}
	}
	return nil
}

func ownedSheet(id, owner string, rows, cols int) sheet.Sheet {
	return sheet.Sheet{ID: id, Name: "Budget", Owner: owner, Rows: rows, Cols: cols}
}

// --- ExecuteCreateSheet tests ---

// TestExecuteCreateSheet_Valid tests creating an empty grid.
func TestExecuteCreateSheet_Valid(t *testing.T) {
	store := newMockSheetStore()

	id, err := ExecuteCreateSheet(context.Background(), CreateSheetInput{
		Name: "Budget", Owner: "alice", Rows: 20, Cols: 10,
	}, SheetDeps{SheetStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved, ok := store.sheets[id]
	if !ok {
		t.Fatal("expected sheet persisted in store")
	}
	if saved.Rows != 20 || saved.Cols != 10 {
		t.Errorf("expected 20x10, got %dx%d", saved.Rows, saved.Cols)
	}
}

// TestExecuteCreateSheet_BadDimensions tests the dimension limits.
func TestExecuteCreateSheet_BadDimensions(t *testing.T) {
	store := newMockSheetStore()
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {sheet.MaxRows + 1, 10}, {10, sheet.MaxCols + 1}} {
		_, err := ExecuteCreateSheet(context.Background(), CreateSheetInput{
			Name: "Budget", Owner: "alice", Rows: dims[0], Cols: dims[1],
		}, SheetDeps{SheetStore: store})
		if !errors.Is(err, sheet.ErrBadDimension) {
			t.Errorf("dims %v: expected ErrBadDimension, got %v", dims, err)
		}
	}
}

// --- ExecuteUpdateCell tests ---

// TestExecuteUpdateCell_SetAndClear tests that a non-empty value is stored
// and an empty value removes the cell.
func TestExecuteUpdateCell_SetAndClear(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 10, 10))
	deps := SheetDeps{SheetStore: store}

	err := ExecuteUpdateCell(context.Background(), UpdateCellInput{
		SheetID: "s1", Row: 2, Col: 3, Value: "42",
	}, userActor("alice"), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["s1"][cellKey{2, 3}] != "42" {
		t.Error("expected cell value stored")
	}
	if store.sheets["s1"].UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt bumped")
	}

	err = ExecuteUpdateCell(context.Background(), UpdateCellInput{
		SheetID: "s1", Row: 2, Col: 3, Value: "",
	}, userActor("alice"), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.cells["s1"][cellKey{2, 3}]; ok {
		t.Error("expected cell cleared for empty value")
	}
}

// TestExecuteUpdateCell_OutOfBounds tests the bounds invariant.
func TestExecuteUpdateCell_OutOfBounds(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 5, 5))

	err := ExecuteUpdateCell(context.Background(), UpdateCellInput{
		SheetID: "s1", Row: 5, Col: 0, Value: "x",
	}, userActor("alice"), SheetDeps{SheetStore: store})
	if !errors.Is(err, ErrCellOutside) {
		t.Errorf("expected ErrCellOutside, got %v", err)
	}
}

// TestExecuteUpdateCell_NotOwner tests ownership enforcement.
func TestExecuteUpdateCell_NotOwner(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 5, 5))

	err := ExecuteUpdateCell(context.Background(), UpdateCellInput{
		SheetID: "s1", Row: 0, Col: 0, Value: "x",
	}, userActor("mallory"), SheetDeps{SheetStore: store})
	if !errors.Is(err, ErrNotSheetOwner) {
		t.Errorf("expected ErrNotSheetOwner, got %v", err)
	}
}

// TestExecuteUpdateCell_AdminOverride tests that admins may edit any sheet.
func TestExecuteUpdateCell_AdminOverride(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 5, 5))
	admin := account.Account{ID: "acc-9", Username: "admin", Role: account.RolePlatformAdmin}

	err := ExecuteUpdateCell(context.Background(), UpdateCellInput{
		SheetID: "s1", Row: 0, Col: 0, Value: "x",
	}, admin, SheetDeps{SheetStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- ExecuteResizeSheet tests ---

// TestExecuteResizeSheet_PrunesCells tests that shrinking drops out-of-bounds cells.
func TestExecuteResizeSheet_PrunesCells(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 10, 10))
	deps := SheetDeps{SheetStore: store}
	store.cells["s1"] = map[cellKey]string{
		{1, 1}: "keep",
		{8, 8}: "drop",
	}

	if err := ExecuteResizeSheet(context.Background(), "s1", 5, 5, userActor("alice"), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.pruned {
		t.Error("expected out-of-bounds cells pruned")
	}
	saved := store.sheets["s1"]
	if saved.Rows != 5 || saved.Cols != 5 {
		t.Errorf("expected 5x5, got %dx%d", saved.Rows, saved.Cols)
	}
	if _, ok := store.cells["s1"][cellKey{8, 8}]; ok {
		t.Error("expected cell outside new bounds removed")
	}
	if store.cells["s1"][cellKey{1, 1}] != "keep" {
		t.Error("expected in-bounds cell retained")
	}
}

// TestExecuteResizeSheet_BadDimensions tests dimension validation on resize.
func TestExecuteResizeSheet_BadDimensions(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 10, 10))

	err := ExecuteResizeSheet(context.Background(), "s1", 0, 5, userActor("alice"), SheetDeps{SheetStore: store})
	if !errors.Is(err, sheet.ErrBadDimension) {
		t.Errorf("expected ErrBadDimension, got %v", err)
	}
}

// --- ExecuteDeleteSheet tests ---

// TestExecuteDeleteSheet_Owner tests removal by the owner.
func TestExecuteDeleteSheet_Owner(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 10, 10))

	if err := ExecuteDeleteSheet(context.Background(), "s1", userActor("alice"), SheetDeps{SheetStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.sheets["s1"]; ok {
		t.Error("expected sheet removed")
	}
}

// TestExecuteDeleteSheet_NotOwner tests removal is blocked for strangers.
func TestExecuteDeleteSheet_NotOwner(t *testing.T) {
	store := newMockSheetStore(ownedSheet("s1", "alice", 10, 10))

	err := ExecuteDeleteSheet(context.Background(), "s1", userActor("mallory"), SheetDeps{SheetStore: store})
	if !errors.Is(err, ErrNotSheetOwner) {
		t.Errorf("expected ErrNotSheetOwner, got %v", err)
	}
}
