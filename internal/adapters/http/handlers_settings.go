package web

import (
	"net/http"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
	"genesis/internal/domain/preference"
)

// handleSettings renders and saves the user's display and notification
// preferences (GET/POST /settings). A user with no saved record sees the
// defaults.
func handleSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		prefs, err := stores.PreferenceStore.GetByUsername(ctx, sess.Username)
		if err != nil {
			prefs = preference.Defaults(sess.Username)
		}
		renderTemplate(w, r, "settings.html", map[string]any{
			"Preferences": prefs,
			"Themes":      preference.ValidThemes,
			"Fonts":       preference.ValidFonts,
		})

	case "POST":
		input := orchestrators.UpdatePreferencesInput{
			Username:          sess.Username,
			Theme:             r.FormValue("Theme"),
			FontFamily:        r.FormValue("FontFamily"),
			Notifications:     r.FormValue("Notifications") == "on",
			NotificationEmail: r.FormValue("NotificationEmail"),
			NotificationPhone: r.FormValue("NotificationPhone"),
		}
		if err := orchestrators.ExecuteUpdatePreferences(ctx, input, stores.PreferenceStore); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		recordAudit(r, audit.CategoryAccount, audit.ActionUpdate, audit.SeverityInfo,
			"updated preferences")
		http.Redirect(w, r, "/settings", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
