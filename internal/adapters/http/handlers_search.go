package web

import (
	"net/http"
	"strconv"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
)

// handleSearchAPI manages per-user search history (GET/POST/DELETE /api/search).
// GET returns recent queries, POST records one, DELETE clears the history.
func handleSearchAPI(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		limit := 10
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
				limit = l
			}
		}
		entries, err := stores.SearchStore.ListByUsername(ctx, sess.Username, limit)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"history": entries})

	case "POST":
		var req struct {
			Query string `json:"query"`
			Page  string `json:"page"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteRecordSearch(ctx, sess.Username, req.Query, req.Page, stores.SearchStore); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recorded": true})

	case "DELETE":
		if err := stores.SearchStore.ClearByUsername(ctx, sess.Username); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
