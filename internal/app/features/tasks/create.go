// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/webstackhq/webstack/internal/app/policy/projectpolicy"
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type taskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	TaskGroup   string     `json:"task_group"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  string     `json:"assigned_to"`
}

type createTaskRequest struct {
	ProjectID string `json:"project_id"`
	taskInput
}

// HandleCreate adds a task to a project and bumps the project's total
// counter. A task created directly in the completed state counts toward
// the completed counter in the same delta.
//
// Route: POST /tasks
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), taskMedTimeout)
	defer cancel()

	p := h.writableProject(ctx, w, r, req.ProjectID)
	if p == nil {
		return
	}

	task, ok := h.taskFromInput(w, p.ID, req.taskInput)
	if !ok {
		return
	}

	created, err := h.Tasks.Create(ctx, task)
	if err != nil {
		if errors.Is(err, taskstore.ErrBadStatus) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("task create failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not create task")
		return
	}

	var completedDelta int64
	if created.Status.IsCompleted() {
		completedDelta = 1
	}
	h.applyDelta(ctx, p.ID, 1, completedDelta)

	httpjson.Created(w, created)
}

type bulkCreateRequest struct {
	ProjectID string      `json:"project_id"`
	Tasks     []taskInput `json:"tasks"`
}

// HandleCreateBulk adds several tasks to one project in a single insert,
// then applies one combined counter delta.
//
// Route: POST /tasks/bulk
func (h *Handler) HandleCreateBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Tasks) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "tasks must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), taskMedTimeout)
	defer cancel()

	p := h.writableProject(ctx, w, r, req.ProjectID)
	if p == nil {
		return
	}

	batch := make([]models.Task, 0, len(req.Tasks))
	for _, in := range req.Tasks {
		task, ok := h.taskFromInput(w, p.ID, in)
		if !ok {
			return
		}
		batch = append(batch, task)
	}

	created, err := h.Tasks.CreateBatch(ctx, p.ID, batch)
	if err != nil {
		if errors.Is(err, taskstore.ErrBadStatus) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("bulk task create failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not create tasks")
		return
	}

	var completedDelta int64
	for _, t := range created {
		if t.Status.IsCompleted() {
			completedDelta++
		}
	}
	h.applyDelta(ctx, p.ID, int64(len(created)), completedDelta)

	httpjson.Created(w, created)
}

// writableProject loads a project by hex ID and checks modify access.
// Writes the error response itself and returns nil when the caller should
// stop.
func (h *Handler) writableProject(ctx context.Context, w http.ResponseWriter, r *http.Request, projectID string) *models.Project {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad project id")
		return nil
	}

	p, err := h.Projects.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "project not found")
			return nil
		}
		h.Log.Error("project load failed", zap.Error(err), zap.String("project_id", projectID))
		httpjson.Error(w, http.StatusInternalServerError, "could not load project")
		return nil
	}

	allowed, err := projectpolicy.CanModify(ctx, h.DB, role, userID, p)
	if err != nil {
		h.Log.Error("project modify check failed", zap.Error(err), zap.String("project_id", projectID))
		httpjson.Error(w, http.StatusInternalServerError, "could not check access")
		return nil
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "you do not have access to this project")
		return nil
	}
	return p
}

// taskFromInput validates one task payload. Writes the error response
// itself on failure.
func (h *Handler) taskFromInput(w http.ResponseWriter, projectID primitive.ObjectID, in taskInput) (models.Task, bool) {
	if strings.TrimSpace(in.Title) == "" {
		httpjson.Error(w, http.StatusBadRequest, "title is required")
		return models.Task{}, false
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: ugc.Sanitize(in.Description),
		Status:      models.TaskStatus(in.Status),
		TaskGroup:   in.TaskGroup,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
	if in.AssignedTo != "" {
		oid, err := primitive.ObjectIDFromHex(in.AssignedTo)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad assigned_to id")
			return models.Task{}, false
		}
		task.AssignedTo = &oid
	}
	return task, true
}

// applyDelta mirrors a task mutation onto the project counters. The task
// write has already happened by the time this runs, so a failure is logged
// for reconciliation rather than failing the request.
func (h *Handler) applyDelta(ctx context.Context, projectID primitive.ObjectID, totalDelta, completedDelta int64) {
	if totalDelta == 0 && completedDelta == 0 {
		return
	}
	if err := h.Projects.ApplyTaskDelta(ctx, projectID, totalDelta, completedDelta); err != nil {
		h.Log.Error("project counter update failed",
			zap.Error(err),
			zap.String("project_id", projectID.Hex()),
			zap.Int64("total_delta", totalDelta),
			zap.Int64("completed_delta", completedDelta))
	}
}
