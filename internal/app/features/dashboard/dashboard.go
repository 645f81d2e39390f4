// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Serve returns the dashboard aggregates for the caller's scope: admins
// see fleet-wide numbers plus user counts, customers and team members see
// only the projects they can access.
//
// Route: GET /dashboard
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dashTimeout)
	defer cancel()

	dash, err := h.Stats.FetchDashboard(ctx, role, userID)
	if err != nil {
		h.Log.Error("dashboard fetch failed", zap.Error(err), zap.String("role", role))
		httpjson.Error(w, http.StatusInternalServerError, "could not load dashboard")
		return
	}

	httpjson.OK(w, dash)
}
