// internal/app/features/projects/delete.go
package projects

import (
	"context"
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleDelete removes a project and everything under it. Tasks, messages,
// feedback, iterations, files, and the team roster go with it; payment
// records survive with their project reference nulled.
//
// Route: DELETE /projects/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projLongTimeout)
	defer cancel()

	if err := h.Projects.Delete(ctx, p.ID); err != nil {
		h.Log.Error("project delete failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete project")
		return
	}

	h.Log.Info("project deleted", zap.String("project_id", p.ID.Hex()), zap.String("title", p.Title))
	httpjson.OK(w, map[string]string{"status": "deleted"})
}
