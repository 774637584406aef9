package web

import (
	"net/http"

	"github.com/gorilla/csrf"

	"genesis/internal/domain/accesspolicy"
	"genesis/internal/domain/audit"
)

// handlePolicies handles GET (table) and POST (update one page) for
// /admin/policies. The policy table drives the PageAccess gatekeeper, so
// edits take effect on the next request.
func handlePolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		policies, err := stores.AccessPolicyStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "policies.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Policies":  policies,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		page := r.FormValue("Page")
		if page == "" {
			http.Error(w, "Page is required", http.StatusBadRequest)
			return
		}

		if r.FormValue("Reset") == "true" {
			// Reset the whole table to defaults
			for _, p := range accesspolicy.DefaultPolicies() {
				if err := stores.AccessPolicyStore.Save(ctx, p); err != nil {
					internalError(w, err)
					return
				}
			}
			recordAudit(r, audit.CategoryPolicy, audit.ActionUpdate, audit.SeverityWarning,
				"access policies reset to defaults")
			http.Redirect(w, r, "/admin/policies", http.StatusSeeOther)
			return
		}

		existing, err := stores.AccessPolicyStore.GetByPage(ctx, page)
		if err != nil {
			http.Error(w, "unknown page", http.StatusBadRequest)
			return
		}

		existing.Public = r.FormValue("Public") == "on"
		existing.AllowPlatformAdmin = r.FormValue("AllowPlatformAdmin") == "on"
		existing.AllowUserAdmin = r.FormValue("AllowUserAdmin") == "on"
		existing.AllowUser = r.FormValue("AllowUser") == "on"
		existing.AllowGuest = r.FormValue("AllowGuest") == "on"

		if err := stores.AccessPolicyStore.Save(ctx, existing); err != nil {
			internalError(w, err)
			return
		}

		recordAudit(r, audit.CategoryPolicy, audit.ActionUpdate, audit.SeverityWarning,
			"access policy updated for "+page)
		http.Redirect(w, r, "/admin/policies", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
