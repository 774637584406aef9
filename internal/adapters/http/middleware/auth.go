package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"genesis/internal/domain/accesspolicy"
	domainAccount "genesis/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const accountContextKey contextKey = "account"

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 24 * time.Hour

// Session represents an authenticated session. Validity is carried by
// ExpiresAt and checked on every access, never by a standing boolean.
type Session struct {
	AccountID string
	Username  string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time

	// Forces a redirect to the change-password page until cleared.
	PasswordChangeRequired bool
}

// IsExpired returns true once the session has passed its expiry.
// INVARIANT: Session fields are not mutated
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
	}
}

// Create stores a new session and returns the token.
// PRE: accountID, username, role are non-empty
// POST: Session is stored with an expiry, token is returned
func (ss *SessionStore) Create(accountID, username, role string, passwordChangeRequired bool) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		AccountID:              accountID,
		Username:               username,
		Role:                   role,
		CreatedAt:              now,
		ExpiresAt:              now.Add(SessionTTL),
		PasswordChangeRequired: passwordChangeRequired,
	}
	return token, nil
}

// Get retrieves a session by token. Expired sessions are dropped on access.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if session.IsExpired() {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// DeleteByUsername revokes every session belonging to a user. Used when an
// account is suspended or deleted.
// POST: No session for username remains
func (ss *SessionStore) DeleteByUsername(username string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for token, session := range ss.sessions {
		if session.Username == username {
			delete(ss.sessions, token)
		}
	}
}

// Update replaces the session for a given token in-place.
// PRE: token exists in the store
// POST: Session is replaced with the new value
func (ss *SessionStore) Update(token string, session Session) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sessions[token]; !ok {
		return false
	}
	ss.sessions[token] = session
	return true
}

const sessionCookieName = "genesis_session"

// SecureCookies toggles the Secure flag on session cookies. Set true in
// production where the app sits behind TLS.
var SecureCookies = false

// Auth returns middleware that extracts the session from the cookie and sets
// the account in context. It does NOT block unauthenticated requests; use
// RequireAuth, RequireRole, or PageAccess for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), accountContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks requests from users without one
// of the specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !roleSet[session.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PolicySource supplies the current page policies for access decisions.
type PolicySource interface {
	AsMap(ctx context.Context) (map[string]accesspolicy.PagePolicy, error)
}

// PageAccess returns the gatekeeper middleware. Every page check funnels
// through accesspolicy.Decide: public pages pass without a session, unknown
// pages and unknown roles fail closed, Genesis Admin passes everywhere.
// Denied guests go to the login page, denied users get 403.
func PageAccess(policies PolicySource, page string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := domainAccount.RoleGuest
			session, authed := GetSessionFromContext(r.Context())
			if authed {
				role = session.Role
			}

			all, err := policies.AsMap(r.Context())
			if err != nil {
				slog.Error("access_event", "event", "policy_load_failed", "page", page, "error", err.Error())
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if !accesspolicy.Decide(all, role, page) {
				slog.Info("access_event", "event", "access_denied", "page", page, "role", role)
				if !authed {
					http.Redirect(w, r, "/login", http.StatusSeeOther)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(accountContextKey).(Session)
	return session, ok
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionTokenFromRequest returns the raw session token, if present.
func SessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// IsRole checks if the current session has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	session, ok := GetSessionFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if session.Role == r {
			return true
		}
	}
	return false
}

// IsGenesisAdmin checks if the current session is a Genesis Admin.
func IsGenesisAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleGenesisAdmin)
}

// IsAnyAdmin checks if the current session carries an administrative role.
func IsAnyAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleGenesisAdmin, domainAccount.RolePlatformAdmin, domainAccount.RoleUserAdmin)
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, accountContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
