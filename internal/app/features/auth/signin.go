// internal/app/features/auth/signin.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// One message for every sign-in failure so responses cannot be used to
// probe which accounts exist.
const msgBadCredentials = "Invalid email or password"

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignin checks credentials and sets the session cookie. Unverified
// accounts and accounts without a password are rejected the same way as a
// wrong password.
//
// Route: POST /auth/signin
func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), authShortTimeout)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("signin lookup failed", zap.Error(err))
		}
		httpjson.Error(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	if !user.Verified || !h.Tokens.VerifyPassword(req.Password, user.PasswordHash) {
		httpjson.Error(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	if err := h.Sessions.IssueCookie(w, user.ID.Hex(), user.Email, user.Role); err != nil {
		h.Log.Error("session issue failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not start session")
		return
	}

	httpjson.OK(w, user)
}
