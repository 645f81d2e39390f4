// internal/app/features/projects/view.go
package projects

import (
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.uber.org/zap"
)

// HandleView returns one project.
//
// Route: GET /projects/{id}
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}
	httpjson.OK(w, p)
}

// HandleListTasks returns the project's tasks, oldest first.
//
// Route: GET /projects/{id}/tasks
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	// Customers follow progress through the project counters, never raw
	// task rows, even on their own projects.
	if role, _, _, _ := authz.UserCtx(r); role == authz.RoleCustomer {
		httpjson.OK(w, []models.Task{})
		return
	}

	tasks, err := h.Tasks.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("project task list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list tasks")
		return
	}
	httpjson.OK(w, tasks)
}
