// internal/app/features/projects/handler.go
package projects

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/webstackhq/webstack/internal/app/policy/projectpolicy"
	feedbackstore "github.com/webstackhq/webstack/internal/app/store/feedback"
	filestore "github.com/webstackhq/webstack/internal/app/store/files"
	membershipstore "github.com/webstackhq/webstack/internal/app/store/memberships"
	messagestore "github.com/webstackhq/webstack/internal/app/store/messages"
	paymentstore "github.com/webstackhq/webstack/internal/app/store/payments"
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/app/system/pubsub"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	projShortTimeout = 5 * time.Second
	projMedTimeout   = 10 * time.Second
	projLongTimeout  = 30 * time.Second
)

// ugc strips dangerous markup from free-text fields while keeping basic
// formatting.
var ugc = bluemonday.UGCPolicy()

// Handler is the feature-level entry point for Projects and their
// sub-resources (team roster, messages, feedback, iterations, files,
// payments).
type Handler struct {
	DB          *mongo.Database
	Projects    *projectstore.Store
	Tasks       *taskstore.Store
	Memberships *membershipstore.Store
	Messages    *messagestore.Store
	Feedback    *feedbackstore.Store
	Files       *filestore.Store
	Payments    *paymentstore.Store
	Users       *userstore.Store
	Bus         pubsub.Bus

	BrandName string
	Log       *zap.Logger
}

// loadProject parses {id}, loads the project, and checks read access.
// Existence is checked first, so an unknown ID is a 404 regardless of
// caller; a known ID the caller may not see is a 403. Writes the error
// response itself and returns nil when the caller should stop.
func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) *models.Project {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad project id")
		return nil
	}

	p, err := h.Projects.GetByID(r.Context(), oid)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "project not found")
			return nil
		}
		h.Log.Error("project load failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load project")
		return nil
	}

	allowed, err := projectpolicy.CanAccess(r.Context(), h.DB, role, userID, p)
	if err != nil {
		h.Log.Error("project access check failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not check access")
		return nil
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "you do not have access to this project")
		return nil
	}
	return p
}
