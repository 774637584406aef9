package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/account"
	"genesis/internal/domain/audit"
)

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// ?logout=true ends the current session before showing the form
		if r.URL.Query().Get("logout") == "true" {
			if token := middleware.SessionTokenFromRequest(r); token != "" {
				sessions.Delete(token)
			}
			middleware.ClearSessionCookie(w)
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
			})
			return
		}
		// A session may already exist; a failed login later must not destroy it
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			redirectToRoleHome(w, r, sess)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Username: r.FormValue("Username"),
			Password: r.FormValue("Password"),
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			recordAudit(r, audit.CategoryAuth, audit.ActionLogin, audit.SeverityWarning,
				"failed login for "+input.Username)
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		token, err := sessions.Create(result.AccountID, result.Username, result.Role, result.PasswordChangeRequired)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		recordAudit(r, audit.CategoryAuth, audit.ActionLogin, audit.SeverityInfo,
			"login by "+result.Username)

		if result.PasswordChangeRequired {
			http.Redirect(w, r, "/change-password", http.StatusSeeOther)
			return
		}
		dest, derr := orchestrators.LandingPathForRole(result.Role)
		if derr != nil {
			// Unknown role is fatal for the fresh session: destroy it and
			// send the user back to login.
			slog.Error("auth_event", "event", "unknown_role", "username", result.Username, "role", result.Role)
			sessions.Delete(token)
			middleware.ClearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleRegister handles GET (form) and POST (create account) for /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			redirectToRoleHome(w, r, sess)
			return
		}
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		if r.FormValue("Password") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "register.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "Passwords do not match",
			})
			return
		}

		// Self-registration always produces a plain User account
		input := orchestrators.CreateAccountInput{
			Username: r.FormValue("Username"),
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
			Role:     account.RoleUser,
			Status:   account.StatusActive,
		}
		deps := orchestrators.CreateAccountDeps{
			AccountStore: stores.AccountStore,
		}

		accountID, err := orchestrators.ExecuteCreateAccount(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "register.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
				"Username":  input.Username,
				"Email":     input.Email,
			})
			return
		}

		recordAudit(r, audit.CategoryAccount, audit.ActionRegister, audit.SeverityInfo,
			"self-registration by "+input.Username)

		// Log the fresh account straight in
		token, err := sessions.Create(accountID, input.Username, input.Role, false)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles /logout. Both POST and GET are accepted so plain links
// can end a session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionTokenFromRequest(r); token != "" {
		if sess, ok := sessions.Get(token); ok {
			recordAudit(r, audit.CategoryAuth, audit.ActionLogout, audit.SeverityInfo,
				"logout by "+sess.Username)
		}
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleChangePassword handles GET (form) and POST (update) for /change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Forced":    session.PasswordChangeRequired,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}

		if r.FormValue("NewPassword") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Forced":    session.PasswordChangeRequired,
				"Error":     "New passwords do not match",
			})
			return
		}

		input := orchestrators.ChangePasswordInput{
			AccountID:       session.AccountID,
			CurrentPassword: r.FormValue("CurrentPassword"),
			NewPassword:     r.FormValue("NewPassword"),
		}
		deps := orchestrators.ChangePasswordDeps{
			AccountStore: stores.AccountStore,
		}

		if err := orchestrators.ExecuteChangePassword(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Forced":    session.PasswordChangeRequired,
				"Error":     err.Error(),
			})
			return
		}

		if token := middleware.SessionTokenFromRequest(r); token != "" {
			session.PasswordChangeRequired = false
			sessions.Update(token, session)
		}

		recordAudit(r, audit.CategoryAuth, audit.ActionUpdate, audit.SeverityInfo,
			"password changed by "+session.Username)
		redirectToRoleHome(w, r, session)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// recordAudit persists an audit event for the current request. Failures must
// never break the user-facing flow, so errors are logged and swallowed.
func recordAudit(r *http.Request, category audit.Category, action audit.Action, severity audit.Severity, description string) {
	if stores == nil || stores.AuditStore == nil {
		return
	}
	actorID, actorUsername, actorRole := "", "", ""
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		actorID = sess.AccountID
		actorUsername = sess.Username
		actorRole = sess.Role
	}
	event := audit.NewEvent(actorID, actorUsername, actorRole, category, action).
		WithSeverity(severity).
		WithDescription(description).
		WithRequest(r.RemoteAddr, r.UserAgent())
	if err := stores.AuditStore.Save(r.Context(), event); err != nil {
		slog.Error("audit_save_failed", "error", err.Error())
	}
}
