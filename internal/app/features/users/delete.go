// internal/app/features/users/delete.go
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a user account. Their assigned tasks are unassigned
// rather than deleted; projects and message history are untouched. An
// admin cannot delete their own account.
//
// Route: DELETE /users/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad user id")
		return
	}
	if targetID == callerID {
		httpjson.Error(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usersMedTimeout)
	defer cancel()

	deleted, err := h.Users.Delete(ctx, targetID)
	if err != nil {
		h.Log.Error("user delete failed", zap.Error(err), zap.String("user_id", targetID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete user")
		return
	}
	if deleted == 0 {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", targetID.Hex()), zap.String("deleted_by", callerID.Hex()))
	httpjson.OK(w, map[string]string{"status": "deleted"})
}
