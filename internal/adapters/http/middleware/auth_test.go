package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"genesis/internal/domain/accesspolicy"
	"genesis/internal/domain/account"
)

// --- SessionStore tests ---

// TestSessionStore_CreateAndGet tests the basic session round trip.
func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore()
	token, err := store.Create("acc-1", "alice", account.RoleUser, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	sess, ok := store.Get(token)
	if !ok {
		t.Fatal("expected session to be retrievable")
	}
	if sess.Username != "alice" || sess.Role != account.RoleUser {
		t.Errorf("unexpected session contents: %+v", sess)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("expected ExpiresAt in the future")
	}
}

// TestSessionStore_ExpiredSessionDropped tests that expiry is enforced on
// access and the stale entry is removed.
func TestSessionStore_ExpiredSessionDropped(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create("acc-1", "alice", account.RoleUser, false)

	sess, _ := store.Get(token)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if !store.Update(token, sess) {
		t.Fatal("update failed")
	}

	if _, ok := store.Get(token); ok {
		t.Error("expected expired session to be rejected")
	}
	// Second Get confirms the entry is gone, not just filtered
	if _, ok := store.Get(token); ok {
		t.Error("expected expired session to be deleted")
	}
}

// TestSessionStore_Delete tests explicit logout.
func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create("acc-1", "alice", account.RoleUser, false)
	store.Delete(token)
	if _, ok := store.Get(token); ok {
		t.Error("expected session removed")
	}
}

// TestSessionStore_DeleteByUsername tests revoking all sessions of one user.
func TestSessionStore_DeleteByUsername(t *testing.T) {
	store := NewSessionStore()
	t1, _ := store.Create("acc-1", "alice", account.RoleUser, false)
	t2, _ := store.Create("acc-1", "alice", account.RoleUser, false)
	t3, _ := store.Create("acc-2", "bob", account.RoleUser, false)

	store.DeleteByUsername("alice")
	if _, ok := store.Get(t1); ok {
		t.Error("expected alice's first session revoked")
	}
	if _, ok := store.Get(t2); ok {
		t.Error("expected alice's second session revoked")
	}
	if _, ok := store.Get(t3); !ok {
		t.Error("expected bob's session untouched")
	}
}

// TestSessionStore_Update_UnknownToken tests that Update refuses to insert.
func TestSessionStore_Update_UnknownToken(t *testing.T) {
	store := NewSessionStore()
	if store.Update("nope", Session{Username: "alice"}) {
		t.Error("expected update of unknown token to fail")
	}
}

// --- Auth middleware tests ---

// TestAuth_SetsSessionInContext tests cookie to context propagation.
func TestAuth_SetsSessionInContext(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create("acc-1", "alice", account.RoleUser, false)

	var got Session
	var ok bool
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "genesis_session", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected session in context")
	}
	if got.Username != "alice" {
		t.Errorf("expected username=alice, got %s", got.Username)
	}
}

// TestAuth_NoCookie tests that anonymous requests pass through without a session.
func TestAuth_NoCookie(t *testing.T) {
	store := NewSessionStore()
	var ok bool
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetSessionFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if ok {
		t.Error("expected no session for anonymous request")
	}
}

// TestRequireAuth tests the redirect for unauthenticated requests.
func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303 redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %s", loc)
	}
}

// --- PageAccess tests ---

type staticPolicySource struct {
	policies map[string]accesspolicy.PagePolicy
	err      error
}

func (s staticPolicySource) AsMap(_ context.Context) (map[string]accesspolicy.PagePolicy, error) {
	return s.policies, s.err
}

func pageAccessRequest(t *testing.T, source PolicySource, page string, sess *Session) *httptest.ResponseRecorder {
	t.Helper()
	handler := PageAccess(source, page)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, page, nil)
	if sess != nil {
		req = req.WithContext(ContextWithSession(req.Context(), *sess))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestPageAccess_Decisions tests the gatekeeper outcomes per role.
func TestPageAccess_Decisions(t *testing.T) {
	source := staticPolicySource{policies: map[string]accesspolicy.PagePolicy{
		"/dashboard": {Page: "/dashboard", AllowUser: true},
		"/login":     {Page: "/login", Public: true},
	}}

	// Allowed role reaches the handler
	rec := pageAccessRequest(t, source, "/dashboard", &Session{Role: account.RoleUser, Username: "alice"})
	if rec.Code != http.StatusOK {
		t.Errorf("allowed user: expected 200, got %d", rec.Code)
	}

	// Authenticated but denied role gets 403
	rec = pageAccessRequest(t, source, "/dashboard", &Session{Role: account.RoleGuest, Username: "g"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("denied role: expected 403, got %d", rec.Code)
	}

	// Anonymous visitor is sent to login instead of a bare 403
	rec = pageAccessRequest(t, source, "/dashboard", nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("guest: expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("guest: expected redirect to /login, got %s", loc)
	}

	// Public page needs no session
	rec = pageAccessRequest(t, source, "/login", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("public page: expected 200, got %d", rec.Code)
	}

	// Genesis Admin passes a page that is not even registered
	rec = pageAccessRequest(t, source, "/not-registered", &Session{Role: account.RoleGenesisAdmin, Username: "root"})
	if rec.Code != http.StatusOK {
		t.Errorf("genesis on unknown page: expected 200, got %d", rec.Code)
	}

	// Everyone else fails closed on unregistered pages
	rec = pageAccessRequest(t, source, "/not-registered", &Session{Role: account.RolePlatformAdmin, Username: "admin"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("unknown page: expected 403, got %d", rec.Code)
	}
}

// TestPageAccess_PolicyLoadFailure tests the 500 path when policies cannot load.
func TestPageAccess_PolicyLoadFailure(t *testing.T) {
	source := staticPolicySource{err: errors.New("db gone")}
	rec := pageAccessRequest(t, source, "/dashboard", &Session{Role: account.RoleUser})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// TestRequireRole tests role-gated routes.
func TestRequireRole(t *testing.T) {
	handler := RequireRole(account.RoleGenesisAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/outbox", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{Role: account.RoleUser}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong role: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/outbox", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{Role: account.RoleGenesisAdmin}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("genesis: expected 200, got %d", rec.Code)
	}
}
