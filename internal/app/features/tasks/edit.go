// internal/app/features/tasks/edit.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"time"

	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type editTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	TaskGroup   *string    `json:"task_group"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to"` // empty string unassigns
}

// HandleEdit patches a task. A status change that crosses the completed
// boundary adjusts the project's completed counter in the same request.
//
// Route: PATCH /tasks/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	t, p := h.loadTask(w, r, true)
	if t == nil {
		return
	}

	var req editTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), taskMedTimeout)
	defer cancel()

	// Status first: the transition result decides the counter delta, and
	// the atomic read-modify in SetStatus is what makes two concurrent
	// completions count once.
	if req.Status != nil {
		transition, err := h.Tasks.SetStatus(ctx, t.ID, models.TaskStatus(*req.Status))
		if err != nil {
			if errors.Is(err, taskstore.ErrBadStatus) {
				httpjson.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			if errors.Is(err, taskstore.ErrNotFound) {
				httpjson.Error(w, http.StatusNotFound, "task not found")
				return
			}
			h.Log.Error("task status update failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
			httpjson.Error(w, http.StatusInternalServerError, "could not update task")
			return
		}

		switch {
		case transition.EnteredCompleted():
			h.applyDelta(ctx, p.ID, 0, 1)
		case transition.LeftCompleted():
			h.applyDelta(ctx, p.ID, 0, -1)
		}
	}

	upd := taskstore.Update{
		Title:     req.Title,
		TaskGroup: req.TaskGroup,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
	}
	if req.Description != nil {
		clean := ugc.Sanitize(*req.Description)
		upd.Description = &clean
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			upd.Unassign = true
		} else {
			oid, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				httpjson.Error(w, http.StatusBadRequest, "bad assigned_to id")
				return
			}
			upd.AssignedTo = &oid
		}
	}

	if err := h.Tasks.Apply(ctx, t.ID, upd); err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "task not found")
			return
		}
		h.Log.Error("task edit failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not update task")
		return
	}

	updated, err := h.Tasks.GetByID(ctx, t.ID)
	if err != nil {
		h.Log.Error("task reload failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load task")
		return
	}
	httpjson.OK(w, updated)
}
