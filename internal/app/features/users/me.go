// internal/app/features/users/me.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleMe returns the caller's own account.
//
// Route: GET /users/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
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
		h.Log.Error("profile load failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	httpjson.OK(w, user)
}

type updateMeRequest struct {
	UserName     string `json:"user_name"`
	TeamRole     string `json:"team_role"`
	Department   string `json:"department"`
	ProfileImage string `json:"profile_image"`
}

// HandleUpdateMe patches the caller's profile fields. Role, email, and
// verification state are not self-service.
//
// Route: PATCH /users/me
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateMeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usersShortTimeout)
	defer cancel()

	err := h.Users.UpdateProfile(ctx, userID, userstore.ProfileUpdate{
		UserName:     req.UserName,
		TeamRole:     req.TeamRole,
		Department:   req.Department,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			httpjson.Error(w, http.StatusConflict, "user name is already taken")
			return
		}
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "account no longer exists")
			return
		}
		h.Log.Error("profile update failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not update profile")
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Error("profile reload failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	httpjson.OK(w, user)
}
