package web

import (
	"net/http"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/domain/account"
)

// registerRoutes attaches all application routes to the mux. Page-level
// authorization goes through the PageAccess gatekeeper; API endpoints that
// serve several pages use RequireAuth or RequireRole directly.
func registerRoutes(mux *http.ServeMux) {
	policies := stores.AccessPolicyStore

	page := func(name string, h http.HandlerFunc) http.Handler {
		return middleware.PageAccess(policies, name)(h)
	}

	// Public pages (still consult the policy table, so they can be locked down)
	mux.Handle("/", page("/", handleHome))
	mux.Handle("/login", page("/login", handleLogin))
	mux.Handle("/register", page("/register", handleRegister))
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/change-password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))

	// Dashboards
	mux.Handle("/dashboard", page("/dashboard", handleDashboard))
	mux.Handle("/platform", page("/platform", handlePlatform))
	mux.Handle("/admin/control-panel", page("/admin/control-panel", handleControlPanel))

	// Account administration
	mux.Handle("/admin/accounts", page("/admin/accounts", handleAccounts))
	mux.Handle("/admin/accounts/suspend", page("/admin/accounts", handleAccountSuspend))
	mux.Handle("/admin/accounts/restore", page("/admin/accounts", handleAccountRestore))
	mux.Handle("/admin/accounts/role", page("/admin/accounts", handleAccountRole))
	mux.Handle("/admin/accounts/delete", page("/admin/accounts", handleAccountDelete))

	// Access policy administration (Genesis only by default policy)
	mux.Handle("/admin/policies", page("/admin/policies", handlePolicies))

	// Audit log browser
	mux.Handle("/admin/audit", page("/admin/audit", handleAudit))

	// Outbox administration (Genesis only)
	mux.Handle("/admin/outbox", middleware.RequireRole(account.RoleGenesisAdmin)(http.HandlerFunc(handleOutbox)))
	mux.Handle("/admin/outbox/retry", middleware.RequireRole(account.RoleGenesisAdmin)(http.HandlerFunc(handleOutboxRetry)))
	mux.Handle("/admin/outbox/abandon", middleware.RequireRole(account.RoleGenesisAdmin)(http.HandlerFunc(handleOutboxAbandon)))

	// Tasks
	mux.Handle("/tasks", page("/tasks", handleTasks))
	mux.Handle("/tasks/complete", page("/tasks", handleTaskComplete))
	mux.Handle("/tasks/update", page("/tasks", handleTaskUpdate))
	mux.Handle("/tasks/reopen", page("/tasks", handleTaskReopen))
	mux.Handle("/tasks/delete", page("/tasks", handleTaskDelete))

	// Messaging
	mux.Handle("/messages", page("/messages", handleMessages))
	mux.Handle("/api/messages", middleware.RequireAuth(http.HandlerFunc(handleMessagesAPI)))
	mux.Handle("/api/messages/read", middleware.RequireAuth(http.HandlerFunc(handleMessageReadAPI)))
	mux.Handle("/ws/messages", middleware.RequireAuth(http.HandlerFunc(handleMessagesWS)))

	// Spreadsheets
	mux.Handle("/sheets", page("/sheets", handleSheets))
	mux.Handle("/sheets/view", page("/sheets", handleSheetView))
	mux.Handle("/sheets/resize", page("/sheets", handleSheetResize))
	mux.Handle("/sheets/delete", page("/sheets", handleSheetDelete))
	mux.Handle("/api/sheets/cells", middleware.RequireAuth(http.HandlerFunc(handleSheetCellsAPI)))

	// Settings
	mux.Handle("/settings", page("/settings", handleSettings))

	// Announcements (management lives on the platform dashboard)
	mux.Handle("/announcements", middleware.RequireAuth(http.HandlerFunc(handleAnnouncements)))
	mux.Handle("/platform/announcements", page("/platform", handleAnnouncementCreate))
	mux.Handle("/platform/announcements/publish", page("/platform", handleAnnouncementPublish))
	mux.Handle("/platform/announcements/pin", page("/platform", handleAnnouncementPin))

	// Volunteers
	mux.Handle("/volunteers", page("/volunteers", handleVolunteers))
	mux.Handle("/volunteers/archive", page("/volunteers", handleVolunteerArchive))
	mux.Handle("/volunteers/restore", page("/volunteers", handleVolunteerRestore))

	// Research (surveys); responding is open to any authenticated user
	mux.Handle("/research", page("/research", handleResearch))
	mux.Handle("/research/close", page("/research", handleSurveyClose))
	mux.Handle("/surveys/respond", middleware.RequireAuth(http.HandlerFunc(handleSurveyRespond)))

	// Search history
	mux.Handle("/api/search", middleware.RequireAuth(http.HandlerFunc(handleSearchAPI)))

	// Performance stats (Genesis only)
	mux.Handle("/admin/perf", middleware.RequireRole(account.RoleGenesisAdmin)(http.HandlerFunc(handlePerfStats)))
}
