// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleList returns the projects visible to the caller. Admins see all
// projects, customers their own, team members the ones they are linked to.
// An out-of-scope caller gets an empty list, never an error.
//
// Route: GET /projects
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projMedTimeout)
	defer cancel()

	list, err := h.Projects.ListForRole(ctx, role, userID)
	if err != nil {
		h.Log.Error("project list failed", zap.Error(err), zap.String("role", role))
		httpjson.Error(w, http.StatusInternalServerError, "could not list projects")
		return
	}

	httpjson.OK(w, list)
}
