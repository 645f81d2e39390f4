package auth_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	authfeature "github.com/webstackhq/webstack/internal/app/features/auth"
	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	sysauth "github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/mailer"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"github.com/webstackhq/webstack/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const testCookie = "webstack-session"

// newTestHandler wires an auth handler against a test database. The mailer
// points at a port nothing listens on, so email delivery always fails fast
// and the warning paths are exercised deterministically.
func newTestHandler(t *testing.T) (*authfeature.Handler, *mongo.Database, *token.Service, func()) {
	t.Helper()
	db, cleanup := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	tokens := token.New("test-secret-0123456789", time.Hour, time.Hour)
	sessions, err := sysauth.NewSessionManager(tokens, testCookie, "", time.Hour, false, logger)
	if err != nil {
		cleanup()
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	sessions.SetUserFetcher(userstore.NewFetcher(db))

	mail := mailer.New("127.0.0.1", 1, "", "", "noreply@test.local", "Webstack", logger)
	h := authfeature.NewHandler(userstore.New(db), tokens, mail, sessions,
		"http://localhost:3000", "Webstack", time.Hour, logger)
	return h, db, tokens, cleanup
}

func TestHandleSignup_CreatesUnverifiedAccount(t *testing.T) {
	h, db, _, cleanup := newTestHandler(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	body := `{"user_name": "Casey", "email": "casey@example.com"}`
	req := testutil.NewJSONRequest("POST", "/auth/signup", body)
	rec := testutil.NewRecorder()
	h.HandleSignup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	// Email delivery fails in this setup; the signup still succeeds with a
	// warning.
	rec.AssertContains(t, "verification email could not be sent")

	user, err := userstore.New(db).GetByEmail(ctx, "casey@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if user.Verified {
		t.Error("new account should start unverified")
	}
	if user.Role != "customer" {
		t.Errorf("unset role should default to customer, got %q", user.Role)
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	h, _, _, cleanup := newTestHandler(t)
	defer cleanup()

	body := `{"user_name": "First", "email": "dup@example.com"}`
	req := testutil.NewJSONRequest("POST", "/auth/signup", body)
	rec := testutil.NewRecorder()
	h.HandleSignup(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	body = `{"user_name": "Second", "email": "DUP@example.com"}`
	req = testutil.NewJSONRequest("POST", "/auth/signup", body)
	rec = testutil.NewRecorder()
	h.HandleSignup(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleSignup_BadRole(t *testing.T) {
	h, _, _, cleanup := newTestHandler(t)
	defer cleanup()

	body := `{"user_name": "Casey", "email": "casey@example.com", "role": "superuser"}`
	req := testutil.NewJSONRequest("POST", "/auth/signup", body)
	rec := testutil.NewRecorder()
	h.HandleSignup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleSignup_StaffRolesAreNotSelfService(t *testing.T) {
	h, db, _, cleanup := newTestHandler(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	for _, role := range []string{"admin", "team_member"} {
		body := fmt.Sprintf(`{"user_name": "Mallory", "email": "mallory@example.com", "role": %q}`, role)
		req := testutil.NewJSONRequest("POST", "/auth/signup", body)
		rec := testutil.NewRecorder()
		h.HandleSignup(rec.ResponseRecorder, req)

		rec.AssertStatus(t, http.StatusForbidden)
		rec.AssertContains(t, "created by an administrator")
	}
	if _, err := userstore.New(db).GetByEmail(ctx, "mallory@example.com"); err != userstore.ErrNotFound {
		t.Errorf("no account should exist after rejected signup, got %v", err)
	}
}

func TestHandleSignup_AdminProvisionsStaff(t *testing.T) {
	h, db, _, cleanup := newTestHandler(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	body := `{"user_name": "New Hire", "email": "hire@example.com", "role": "team_member"}`
	req := testutil.NewAuthenticatedJSONRequest("POST", "/auth/signup", body, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleSignup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	user, err := userstore.New(db).GetByEmail(ctx, "hire@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if user.Role != "team_member" {
		t.Errorf("role: got %q, want team_member", user.Role)
	}
}

func TestHandleSignup_InvalidEmail(t *testing.T) {
	h, _, _, cleanup := newTestHandler(t)
	defer cleanup()

	body := `{"user_name": "Casey", "email": "not-an-email"}`
	req := testutil.NewJSONRequest("POST", "/auth/signup", body)
	rec := testutil.NewRecorder()
	h.HandleSignup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "valid email")
}

func TestHandleVerify_BadToken(t *testing.T) {
	h, _, _, cleanup := newTestHandler(t)
	defer cleanup()

	body := `{"token": "garbage", "password": "longenough123"}`
	req := testutil.NewJSONRequest("POST", "/auth/verify", body)
	rec := testutil.NewRecorder()
	h.HandleVerify(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "invalid or expired token")
}

func TestHandleVerify_SessionTokenRejected(t *testing.T) {
	h, _, tokens, cleanup := newTestHandler(t)
	defer cleanup()

	// Validly signed, but a session token never verifies an account.
	tok, err := tokens.IssueSession("64b0c23f4e7f1a2b3c4d5e6f", "casey@example.com", "customer")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	body := fmt.Sprintf(`{"token": %q, "password": "longenough123"}`, tok)
	req := testutil.NewJSONRequest("POST", "/auth/verify", body)
	rec := testutil.NewRecorder()
	h.HandleVerify(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleVerify_ShortPassword(t *testing.T) {
	h, _, tokens, cleanup := newTestHandler(t)
	defer cleanup()

	tok, err := tokens.IssueVerification("64b0c23f4e7f1a2b3c4d5e6f", "casey@example.com")
	if err != nil {
		t.Fatalf("IssueVerification failed: %v", err)
	}

	body := fmt.Sprintf(`{"token": %q, "password": "short"}`, tok)
	req := testutil.NewJSONRequest("POST", "/auth/verify", body)
	rec := testutil.NewRecorder()
	h.HandleVerify(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "at least 8 characters")
}

func TestVerifyThenSignin(t *testing.T) {
	h, db, tokens, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	user := fixtures.CreateUnverifiedUser(ctx, "Casey", "casey@example.com", "customer")

	// Before verification, sign-in is rejected like any bad credential.
	body := `{"email": "casey@example.com", "password": "longenough123"}`
	req := testutil.NewJSONRequest("POST", "/auth/signin", body)
	rec := testutil.NewRecorder()
	h.HandleSignin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "Invalid email or password")

	// Verify with a token and set the first password.
	tok, err := tokens.IssueVerification(user.ID.Hex(), user.Email)
	if err != nil {
		t.Fatalf("IssueVerification failed: %v", err)
	}
	body = fmt.Sprintf(`{"token": %q, "password": "longenough123"}`, tok)
	req = testutil.NewJSONRequest("POST", "/auth/verify", body)
	rec = testutil.NewRecorder()
	h.HandleVerify(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// Now sign-in succeeds and sets the session cookie.
	body = `{"email": "casey@example.com", "password": "longenough123"}`
	req = testutil.NewJSONRequest("POST", "/auth/signin", body)
	rec = testutil.NewRecorder()
	h.HandleSignin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.Value != "" {
			found = true
			if !c.HttpOnly {
				t.Error("session cookie should be HTTP-only")
			}
		}
	}
	if !found {
		t.Error("expected a session cookie after sign-in")
	}

	// Wrong password still fails with the same message.
	body = `{"email": "casey@example.com", "password": "wrongpassword"}`
	req = testutil.NewJSONRequest("POST", "/auth/signin", body)
	rec = testutil.NewRecorder()
	h.HandleSignin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "Invalid email or password")
}

func TestHandleForgotPassword_UniformResponse(t *testing.T) {
	h, db, _, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	fixtures.CreateCustomer(ctx, "Casey", "known@example.com")

	// Known and unknown emails get the same 200 and the same message, so
	// the endpoint cannot be used to probe for accounts.
	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		body := fmt.Sprintf(`{"email": %q}`, email)
		req := testutil.NewJSONRequest("POST", "/auth/forgot-password", body)
		rec := testutil.NewRecorder()
		h.HandleForgotPassword(rec.ResponseRecorder, req)

		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, "If an account exists")
	}
}

func TestHandleResetPassword(t *testing.T) {
	h, db, tokens, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	user := fixtures.CreateUnverifiedUser(ctx, "Casey", "casey@example.com", "customer")

	tok, err := tokens.IssueVerification(user.ID.Hex(), user.Email)
	if err != nil {
		t.Fatalf("IssueVerification failed: %v", err)
	}

	body := fmt.Sprintf(`{"token": %q, "new_password": "freshpassword1"}`, tok)
	req := testutil.NewJSONRequest("POST", "/auth/reset-password", body)
	rec := testutil.NewRecorder()
	h.HandleResetPassword(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// Completing a reset also verifies the account.
	updated, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !updated.Verified {
		t.Error("reset should verify the account")
	}
	if updated.PasswordHash == "" {
		t.Error("expected a stored password hash")
	}
}
