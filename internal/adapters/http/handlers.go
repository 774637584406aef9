package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/preference"
	"genesis/internal/domain/sheet"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	username := ""
	if ok {
		role = sess.Role
		username = sess.Username
	}

	// Display preferences shape every page render; missing records fall
	// back to the defaults.
	prefs := preference.Defaults(username)
	if ok && stores != nil && stores.PreferenceStore != nil {
		if p, err := stores.PreferenceStore.GetByUsername(r.Context(), username); err == nil {
			prefs = p
		}
	}

	funcMap := template.FuncMap{
		"currentRole":     func() string { return role },
		"currentUsername": func() string { return username },
		"isLoggedIn":      func() bool { return role != "" },
		"isAnyAdmin":      func() bool { return middleware.IsAnyAdmin(r.Context()) },
		"isGenesisAdmin":  func() bool { return middleware.IsGenesisAdmin(r.Context()) },
		"csrfToken":       func() string { return csrf.Token(r) },
		"userTheme":       func() string { return prefs.Theme },
		"userFont":        func() string { return prefs.FontFamily },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i
			}
			return s
		},
		"cellRef": sheet.CellRef,
		"colName": func(col int) string {
			ref := sheet.CellRef(0, col)
			return strings.TrimSuffix(ref, "1")
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome renders the landing page. Logged-in users are bounced to their
// role's home; a logout=true query clears the session first.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if r.URL.Query().Get("logout") == "true" {
		if token := middleware.SessionTokenFromRequest(r); token != "" {
			sessions.Delete(token)
		}
		middleware.ClearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		redirectToRoleHome(w, r, sess)
		return
	}

	renderTemplate(w, r, "home.html", nil)
}

// redirectToRoleHome sends a session to its role's landing page. An unknown
// role is fatal for the session: it is logged, the session is destroyed, and
// the user returns to the login page.
func redirectToRoleHome(w http.ResponseWriter, r *http.Request, sess middleware.Session) {
	dest, err := orchestrators.LandingPathForRole(sess.Role)
	if err != nil {
		slog.Error("auth_event", "event", "unknown_role", "username", sess.Username, "role", sess.Role)
		if token := middleware.SessionTokenFromRequest(r); token != "" {
			sessions.Delete(token)
		}
		middleware.ClearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
