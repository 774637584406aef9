package web

import (
	"errors"
	"net/http"
	"strconv"

	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
	"genesis/internal/domain/sheet"
)

func sheetDeps() orchestrators.SheetDeps {
	return orchestrators.SheetDeps{SheetStore: stores.SheetStore}
}

func sheetStatusFor(err error) int {
	switch {
	case errors.Is(err, orchestrators.ErrNotSheetOwner):
		return http.StatusForbidden
	case errors.Is(err, orchestrators.ErrCellOutside):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// handleSheets lists the user's spreadsheets and creates new ones (GET/POST /sheets).
func handleSheets(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		sheets, err := stores.SheetStore.ListByOwner(ctx, actor.Username)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "sheets.html", map[string]any{
			"Sheets": sheets,
		})

	case "POST":
		rows, _ := strconv.Atoi(r.FormValue("Rows"))
		cols, _ := strconv.Atoi(r.FormValue("Cols"))
		input := orchestrators.CreateSheetInput{
			Name:  r.FormValue("Name"),
			Owner: actor.Username,
			Rows:  rows,
			Cols:  cols,
		}
		id, err := orchestrators.ExecuteCreateSheet(ctx, input, sheetDeps())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		recordAudit(r, audit.CategorySheet, audit.ActionCreate, audit.SeverityInfo,
			"created sheet "+input.Name)
		http.Redirect(w, r, "/sheets/view?id="+id, http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSheetView renders one sheet as an editable grid (GET /sheets/view?id=).
func handleSheetView(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	id := r.URL.Query().Get("id")
	s, err := stores.SheetStore.GetByID(ctx, id)
	if err != nil {
		http.Error(w, "Sheet not found", http.StatusNotFound)
		return
	}
	if s.Owner != actor.Username && !actor.IsAnyAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	cells, err := stores.SheetStore.ListCells(ctx, s.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	// Key the sparse cells by reference so the template can look them up
	// while walking the full grid.
	cellMap := make(map[string]string, len(cells))
	for _, c := range cells {
		cellMap[sheet.CellRef(c.Row, c.Col)] = c.Value
	}

	renderTemplate(w, r, "sheet_view.html", map[string]any{
		"Sheet": s,
		"Cells": cellMap,
	})
}

// handleSheetCellsAPI reads and writes cells as JSON (GET/POST /api/sheets/cells).
func handleSheetCellsAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		id := r.URL.Query().Get("sheet_id")
		s, err := stores.SheetStore.GetByID(ctx, id)
		if err != nil {
			http.Error(w, "Sheet not found", http.StatusNotFound)
			return
		}
		if s.Owner != actor.Username && !actor.IsAnyAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		cells, err := stores.SheetStore.ListCells(ctx, s.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"sheet_id": s.ID,
			"rows":     s.Rows,
			"cols":     s.Cols,
			"cells":    cells,
		})

	case "POST":
		var req struct {
			SheetID string `json:"sheet_id"`
			Row     int    `json:"row"`
			Col     int    `json:"col"`
			Value   string `json:"value"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		input := orchestrators.UpdateCellInput{
			SheetID: req.SheetID,
			Row:     req.Row,
			Col:     req.Col,
			Value:   req.Value,
		}
		if err := orchestrators.ExecuteUpdateCell(ctx, input, actor, sheetDeps()); err != nil {
			http.Error(w, err.Error(), sheetStatusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"sheet_id": req.SheetID,
			"ref":      sheet.CellRef(req.Row, req.Col),
			"value":    req.Value,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSheetResize changes a sheet's dimensions (POST /sheets/resize).
func handleSheetResize(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("SheetID")
	rows, _ := strconv.Atoi(r.FormValue("Rows"))
	cols, _ := strconv.Atoi(r.FormValue("Cols"))
	if err := orchestrators.ExecuteResizeSheet(r.Context(), id, rows, cols, actor, sheetDeps()); err != nil {
		http.Error(w, err.Error(), sheetStatusFor(err))
		return
	}
	recordAudit(r, audit.CategorySheet, audit.ActionUpdate, audit.SeverityInfo,
		"resized sheet "+id)
	http.Redirect(w, r, "/sheets/view?id="+id, http.StatusSeeOther)
}

// handleSheetDelete removes a sheet and its cells (POST /sheets/delete).
func handleSheetDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("SheetID")
	if err := orchestrators.ExecuteDeleteSheet(r.Context(), id, actor, sheetDeps()); err != nil {
		http.Error(w, err.Error(), sheetStatusFor(err))
		return
	}
	recordAudit(r, audit.CategorySheet, audit.ActionDelete, audit.SeverityInfo,
		"deleted sheet "+id)
	http.Redirect(w, r, "/sheets", http.StatusSeeOther)
}
