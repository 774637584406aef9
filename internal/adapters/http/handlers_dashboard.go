package web

import (
	"net/http"
	"time"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/projections"
)

// dashboardDeps wires the projection against the global stores.
func dashboardDeps() projections.GetDashboardDeps {
	return projections.GetDashboardDeps{
		AnnouncementStore: stores.AnnouncementStore,
		MessageStore:      stores.MessageStore,
		TaskStore:         stores.TaskStore,
		AccountStore:      stores.AccountStore,
		VolunteerStore:    stores.VolunteerStore,
		AuditStore:        stores.AuditStore,
	}
}

// handleDashboard renders the user dashboard (GET /dashboard)
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Username: sess.Username, Role: sess.Role},
		dashboardDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Announcements": result.Announcements,
		"UnreadCount":   result.UnreadCount,
		"OpenTaskCount": result.OpenTaskCount,
		"Tasks":         result.Tasks,
	})
}

// handlePlatform renders the admin platform dashboard (GET /platform)
func handlePlatform(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Username: sess.Username, Role: sess.Role},
		dashboardDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	drafts, err := stores.AnnouncementStore.List(r.Context(), true)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "platform.html", map[string]any{
		"Announcements":  drafts,
		"UnreadCount":    result.UnreadCount,
		"TotalAccounts":  result.TotalAccounts,
		"AccountsByRole": result.AccountsByRole,
		"TeamCounts":     result.TeamCounts,
	})
}

// handleControlPanel renders the Genesis control panel (GET /admin/control-panel)
func handleControlPanel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Username: sess.Username, Role: sess.Role},
		dashboardDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	policyList, err := stores.AccessPolicyStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	failed, err := stores.OutboxStore.ListFailed(r.Context(), 10)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "control_panel.html", map[string]any{
		"TotalAccounts":  result.TotalAccounts,
		"AccountsByRole": result.AccountsByRole,
		"Policies":       policyList,
		"RecentAudit":    result.RecentAudit,
		"FailedOutbox":   failed,
	})
}

// handlePerfStats exposes recent request/query timings as JSON.
func handlePerfStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	since := timeNow().Add(-15 * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 20))
}
