package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"go.uber.org/zap"
)

// fakeFetcher serves session users from a map, standing in for the users
// store.
type fakeFetcher struct {
	users map[string]*auth.SessionUser
}

func (f *fakeFetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

const cookieName = "webstack-session"

func newTestSessionManager(t *testing.T, fetcher auth.UserFetcher) (*auth.SessionManager, *token.Service) {
	t.Helper()
	tokens := token.New("test-secret-0123456789", time.Hour, time.Hour)
	sm, err := auth.NewSessionManager(tokens, cookieName, "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	if fetcher != nil {
		sm.SetUserFetcher(fetcher)
	}
	return sm, tokens
}

// echoUser writes the context user's ID and role, or 500 when missing.
func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.CurrentUser(r)
		if !ok {
			http.Error(w, "no user in context", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(u.ID + " " + u.Role))
	})
}

func TestLoadSessionUser_ValidSession(t *testing.T) {
	fetcher := &fakeFetcher{users: map[string]*auth.SessionUser{
		"abc123": {ID: "abc123", Name: "Casey", Email: "casey@example.com", Role: "customer"},
	}}
	sm, tokens := newTestSessionManager(t, fetcher)

	tok, err := tokens.IssueSession("abc123", "casey@example.com", "customer")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tok})
	rec := httptest.NewRecorder()

	sm.LoadSessionUser(sm.RequireSignedIn(echoUser())).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "abc123 customer") {
		t.Errorf("body = %q, want user id and role", rec.Body.String())
	}
}

func TestLoadSessionUser_RoleComesFromStorageNotToken(t *testing.T) {
	// Token says customer; storage says admin. Storage wins.
	fetcher := &fakeFetcher{users: map[string]*auth.SessionUser{
		"abc123": {ID: "abc123", Role: "admin"},
	}}
	sm, tokens := newTestSessionManager(t, fetcher)

	tok, err := tokens.IssueSession("abc123", "casey@example.com", "customer")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tok})
	rec := httptest.NewRecorder()

	sm.LoadSessionUser(sm.RequireSignedIn(echoUser())).ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "abc123 admin") {
		t.Errorf("body = %q, want the role from storage", rec.Body.String())
	}
}

func TestLoadSessionUser_DeletedUser(t *testing.T) {
	// Valid token, but the account no longer exists.
	fetcher := &fakeFetcher{users: map[string]*auth.SessionUser{}}
	sm, tokens := newTestSessionManager(t, fetcher)

	tok, err := tokens.IssueSession("gone", "gone@example.com", "customer")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tok})
	rec := httptest.NewRecorder()

	sm.LoadSessionUser(sm.RequireSignedIn(echoUser())).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestLoadSessionUser_VerificationTokenRejected(t *testing.T) {
	fetcher := &fakeFetcher{users: map[string]*auth.SessionUser{
		"abc123": {ID: "abc123", Role: "customer"},
	}}
	sm, tokens := newTestSessionManager(t, fetcher)

	// Validly signed, but a verification token is never a session.
	tok, err := tokens.IssueVerification("abc123", "casey@example.com")
	if err != nil {
		t.Fatalf("IssueVerification failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tok})
	rec := httptest.NewRecorder()

	sm.LoadSessionUser(sm.RequireSignedIn(echoUser())).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestRequireSignedIn_NoCookie(t *testing.T) {
	sm, _ := newTestSessionManager(t, nil)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	sm.LoadSessionUser(sm.RequireSignedIn(echoUser())).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Authentication required") {
		t.Errorf("body = %q, want auth-required message", rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	sm, _ := newTestSessionManager(t, nil)

	handler := sm.RequireRole("admin")(echoUser())

	// Wrong role → 403.
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "abc123", Role: "customer"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong role: got %d, want 403", rec.Code)
	}

	// Allowed role → handler runs.
	req = auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "abc123", Role: "admin"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed role: got %d, want 200", rec.Code)
	}

	// Not signed in → 401.
	req = httptest.NewRequest("GET", "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}
}
