// internal/app/features/tasks/handler.go
package tasks

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/webstackhq/webstack/internal/app/policy/projectpolicy"
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	taskShortTimeout = 5 * time.Second
	taskMedTimeout   = 10 * time.Second
)

var ugc = bluemonday.UGCPolicy()

// Handler is the feature-level entry point for Tasks. Every mutation here
// mirrors itself onto the owning project's counters through
// projectstore.ApplyTaskDelta.
type Handler struct {
	DB       *mongo.Database
	Tasks    *taskstore.Store
	Projects *projectstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a tasks handler.
func NewHandler(db *mongo.Database, tasks *taskstore.Store, projects *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Tasks: tasks, Projects: projects, Log: logger}
}

// loadTask parses {id}, loads the task and its project, and checks that
// the caller may modify the project. Writes the error response itself and
// returns nils when the caller should stop.
func (h *Handler) loadTask(w http.ResponseWriter, r *http.Request, forWrite bool) (*models.Task, *models.Project) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return nil, nil
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad task id")
		return nil, nil
	}

	t, err := h.Tasks.GetByID(r.Context(), oid)
	if err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "task not found")
			return nil, nil
		}
		h.Log.Error("task load failed", zap.Error(err), zap.String("task_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load task")
		return nil, nil
	}

	p, err := h.Projects.GetByID(r.Context(), t.ProjectID)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			// Orphaned task; treat like a missing task.
			httpjson.Error(w, http.StatusNotFound, "task not found")
			return nil, nil
		}
		h.Log.Error("task project load failed", zap.Error(err), zap.String("task_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load task")
		return nil, nil
	}

	check := projectpolicy.CanAccess
	if forWrite {
		check = projectpolicy.CanModify
	}
	allowed, err := check(r.Context(), h.DB, role, userID, p)
	if err != nil {
		h.Log.Error("task access check failed", zap.Error(err), zap.String("task_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not check access")
		return nil, nil
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "you do not have access to this task")
		return nil, nil
	}
	return t, p
}
