// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleList returns the caller's task scope: admins every task, team
// members the tasks on their linked projects, customers an empty list.
// Customers follow progress through project counters, not raw task rows.
//
// Route: GET /tasks
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), taskMedTimeout)
	defer cancel()

	var (
		list []models.Task
		err  error
	)
	switch role {
	case authz.RoleAdmin:
		list, err = h.Tasks.ListAll(ctx)
	case authz.RoleTeamMember:
		var ids []primitive.ObjectID
		ids, err = h.Projects.VisibleProjectIDs(ctx, userID)
		if err == nil {
			list, err = h.Tasks.ListByProjects(ctx, ids)
		}
	default:
		list = []models.Task{}
	}
	if err != nil {
		h.Log.Error("task list failed", zap.Error(err), zap.String("role", role))
		httpjson.Error(w, http.StatusInternalServerError, "could not list tasks")
		return
	}

	httpjson.OK(w, list)
}

// HandleView returns one task.
//
// Route: GET /tasks/{id}
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	t, _ := h.loadTask(w, r, false)
	if t == nil {
		return
	}
	httpjson.OK(w, t)
}
