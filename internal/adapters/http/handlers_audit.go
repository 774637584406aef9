package web

import (
	"net/http"
	"strconv"

	auditStore "genesis/internal/adapters/storage/audit"
	auditDomain "genesis/internal/domain/audit"
)

// handleAudit renders the audit log browser (GET /admin/audit)
// PRE: Gatekeeper has admitted the caller
// POST: Renders the audit tail with optional filters
func handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	filter := auditStore.Filter{}
	if category := r.URL.Query().Get("category"); category != "" {
		cat := auditDomain.Category(category)
		filter.Category = &cat
	}
	if action := r.URL.Query().Get("action"); action != "" {
		act := auditDomain.Action(action)
		filter.Action = &act
	}
	if actor := r.URL.Query().Get("actor"); actor != "" {
		filter.ActorUsername = &actor
	}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		sev := auditDomain.Severity(severity)
		filter.Severity = &sev
	}
	if resourceID := r.URL.Query().Get("resource_id"); resourceID != "" {
		filter.ResourceID = &resourceID
	}
	if fromDate := r.URL.Query().Get("from"); fromDate != "" {
		filter.FromDate = &fromDate
	}
	if toDate := r.URL.Query().Get("to"); toDate != "" {
		filter.ToDate = &toDate
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	events, err := stores.AuditStore.List(ctx, filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, events)
		return
	}
	renderTemplate(w, r, "audit.html", map[string]any{
		"Events": events,
		"Limit":  limit,
	})
}
