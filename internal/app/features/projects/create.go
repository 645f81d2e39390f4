// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createProjectRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Phase        string     `json:"phase"`
	PricingTier  string     `json:"pricing_tier"`
	Budget       float64    `json:"budget"`
	PaymentType  string     `json:"payment_type"`
	StartDate    *time.Time `json:"start_date"`
	DurationDays int        `json:"duration_days"`
	Priority     string     `json:"priority"`
	Visibility   string     `json:"visibility"`

	// Admin-only: create on behalf of a customer. Ignored for customers,
	// whose projects are always their own.
	CustomerID string `json:"customer_id"`
}

// HandleCreate creates a project. The owner is the calling customer;
// admins must name the customer the project belongs to.
//
// Route: POST /projects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createProjectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httpjson.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	phase := models.ProjectPhase(req.Phase)
	if req.Phase != "" && !phase.Valid() {
		httpjson.Error(w, http.StatusBadRequest, "unknown project phase")
		return
	}

	customerID := userID
	if role == authz.RoleAdmin {
		oid, err := primitive.ObjectIDFromHex(req.CustomerID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "customer_id is required for admin-created projects")
			return
		}
		customerID = oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), projMedTimeout)
	defer cancel()

	project, err := h.Projects.Create(ctx, models.Project{
		CustomerID:   customerID,
		Title:        req.Title,
		Description:  ugc.Sanitize(req.Description),
		Phase:        phase,
		PricingTier:  req.PricingTier,
		Budget:       req.Budget,
		PaymentType:  req.PaymentType,
		StartDate:    req.StartDate,
		DurationDays: req.DurationDays,
		Priority:     req.Priority,
		Visibility:   req.Visibility,
	})
	if err != nil {
		h.Log.Error("project create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create project")
		return
	}

	httpjson.Created(w, project)
}
