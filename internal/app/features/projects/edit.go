// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"net/http"
	"time"

	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.uber.org/zap"
)

type editProjectRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Phase        *string    `json:"phase"`
	PricingTier  *string    `json:"pricing_tier"`
	Budget       *float64   `json:"budget"`
	PaymentType  *string    `json:"payment_type"`
	StartDate    *time.Time `json:"start_date"`
	DurationDays *int       `json:"duration_days"`
	Priority     *string    `json:"priority"`
	Visibility   *string    `json:"visibility"`
}

// HandleEdit patches project fields. Absent fields are left unchanged; the
// task counters cannot be set through this endpoint at all.
//
// Route: PATCH /projects/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	var req editProjectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := projectstore.Update{
		Title:        req.Title,
		PricingTier:  req.PricingTier,
		Budget:       req.Budget,
		PaymentType:  req.PaymentType,
		StartDate:    req.StartDate,
		DurationDays: req.DurationDays,
		Priority:     req.Priority,
		Visibility:   req.Visibility,
	}
	if req.Description != nil {
		clean := ugc.Sanitize(*req.Description)
		upd.Description = &clean
	}
	if req.Phase != nil {
		phase := models.ProjectPhase(*req.Phase)
		if !phase.Valid() {
			httpjson.Error(w, http.StatusBadRequest, "unknown project phase")
			return
		}
		upd.Phase = &phase
	}

	ctx, cancel := context.WithTimeout(r.Context(), projMedTimeout)
	defer cancel()

	if err := h.Projects.Apply(ctx, p.ID, upd); err != nil {
		h.Log.Error("project edit failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not update project")
		return
	}

	updated, err := h.Projects.GetByID(ctx, p.ID)
	if err != nil {
		h.Log.Error("project reload failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load project")
		return
	}
	httpjson.OK(w, updated)
}
