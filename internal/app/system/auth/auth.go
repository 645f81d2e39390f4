// internal/app/system/auth/auth.go

// Package auth holds the session manager: a signed JWT in an HTTP-only
// cookie plus a live user lookup on every request.
//
// The token is treated as an identity assertion only. Authorization-relevant
// attributes (role, existence) are re-fetched from storage per request, so a
// role change or account deletion takes effect on the next request, not the
// next login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"go.uber.org/zap"
)

// SessionUser is what LoadSessionUser injects into r.Context().
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// ErrUserNotFound is returned by a UserFetcher when the token's subject no
// longer exists in storage.
var ErrUserNotFound = errors.New("session user not found")

// UserFetcher loads the current user from storage by id. Implemented by
// store/users.Fetcher.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	authErrorKey   ctxKey = "authError"
)

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
)

// SessionManager issues, clears, and validates the session cookie.
type SessionManager struct {
	tokens     *token.Service
	cookieName string
	domain     string
	ttl        time.Duration
	secure     bool
	fetcher    UserFetcher
	log        *zap.Logger
}

// NewSessionManager builds a SessionManager. The fetcher may be set later
// via SetUserFetcher (bootstrap wires it after the stores exist).
func NewSessionManager(tokens *token.Service, cookieName, domain string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if cookieName == "" {
		return nil, fmt.Errorf("cookie name is required")
	}
	if ttl <= 0 {
		ttl = token.DefaultSessionTTL
	}
	return &SessionManager{
		tokens:     tokens,
		cookieName: cookieName,
		domain:     domain,
		ttl:        ttl,
		secure:     secure,
		log:        logger,
	}, nil
}

// SetUserFetcher wires the storage lookup used to refresh the user's role
// on every request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// IssueCookie signs a session token for the user and sets it as the
// session cookie.
func (sm *SessionManager) IssueCookie(w http.ResponseWriter, userID, email, role string) error {
	tok, err := sm.tokens.IssueSession(userID, email, role)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    tok,
		Path:     "/",
		Domain:   sm.domain,
		MaxAge:   int(sm.ttl.Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		Domain:   sm.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUser returns the user injected by LoadSessionUser and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user directly into the request context, bypassing
// the middleware. For tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser verifies the session cookie and, when valid, re-loads the
// user from storage and injects a SessionUser into the request context.
// It never rejects the request itself; RequireSignedIn/RequireRole do that.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sm.cookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r.WithContext(withAuthError(r.Context(), msgAuthRequired)))
			return
		}

		claims, err := sm.tokens.Verify(c.Value)
		if err != nil || claims.IsVerification() {
			// Verification tokens are never a session, even when validly signed.
			next.ServeHTTP(w, r.WithContext(withAuthError(r.Context(), msgInvalidToken)))
			return
		}

		if sm.fetcher == nil {
			next.ServeHTTP(w, r.WithContext(withAuthError(r.Context(), msgAuthRequired)))
			return
		}

		u, err := sm.fetcher.FetchSessionUser(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) && sm.log != nil {
				sm.log.Error("session user fetch failed", zap.Error(err), zap.String("user_id", claims.UserID))
			}
			next.ServeHTTP(w, r.WithContext(withAuthError(r.Context(), msgInvalidToken)))
			return
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser)
// and responds 401 with the recorded auth error otherwise.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.Error(w, http.StatusUnauthorized, authError(r))
	})
}

// RequireRole ensures the current user has one of the allowed roles.
// Not signed in → 401; signed in with the wrong role → 403 naming the role.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, authError(r))
				return
			}
			if _, has := set[u.Role]; !has {
				httpjson.Error(w, http.StatusForbidden, fmt.Sprintf("role %s may not access this resource", u.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func withAuthError(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, authErrorKey, msg)
}

func authError(r *http.Request) string {
	if msg, ok := r.Context().Value(authErrorKey).(string); ok && msg != "" {
		return msg
	}
	return msgAuthRequired
}
