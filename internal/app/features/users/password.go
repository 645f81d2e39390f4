// internal/app/features/users/password.go
package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword replaces the caller's password after checking the
// current one. Unlike the reset flow this needs no emailed token: the proof
// of identity is the live session plus the existing password.
//
// Route: PATCH /users/me/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		httpjson.Error(w, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usersShortTimeout)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "account no longer exists")
			return
		}
		h.Log.Error("password change load failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not change password")
		return
	}

	if !h.Tokens.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		httpjson.Error(w, http.StatusForbidden, "current password is incorrect")
		return
	}

	hash, err := h.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not change password")
		return
	}
	if err := h.Users.SetPassword(ctx, userID, hash); err != nil {
		h.Log.Error("password change failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not change password")
		return
	}

	httpjson.OK(w, map[string]string{"status": "password updated"})
}
