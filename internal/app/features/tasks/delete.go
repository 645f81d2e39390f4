// internal/app/features/tasks/delete.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleDelete removes a task and decrements the project's total counter;
// a completed task comes off the completed counter in the same delta, so
// the progress percentage is recomputed once.
//
// Route: DELETE /tasks/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	t, p := h.loadTask(w, r, true)
	if t == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), taskMedTimeout)
	defer cancel()

	deleted, err := h.Tasks.Delete(ctx, t.ID)
	if err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "task not found")
			return
		}
		h.Log.Error("task delete failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete task")
		return
	}

	var completedDelta int64
	if deleted.Status.IsCompleted() {
		completedDelta = -1
	}
	h.applyDelta(ctx, p.ID, -1, completedDelta)

	httpjson.OK(w, map[string]string{"status": "deleted"})
}
