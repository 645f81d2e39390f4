// internal/app/features/projects/feedback.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	feedbackstore "github.com/webstackhq/webstack/internal/app/store/feedback"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.uber.org/zap"
)

// HandleListFeedback returns the project's feedback, newest first.
//
// Route: GET /projects/{id}/feedback
func (h *Handler) HandleListFeedback(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	list, err := h.Feedback.ListFeedback(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("feedback list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list feedback")
		return
	}
	httpjson.OK(w, list)
}

type createFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleCreateFeedback records a customer rating for the project. Admins
// may record feedback on the customer's behalf; either way the feedback is
// attributed to the owning customer.
//
// Route: POST /projects/{id}/feedback
func (h *Handler) HandleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	var req createFeedbackRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projShortTimeout)
	defer cancel()

	fb, err := h.Feedback.CreateFeedback(ctx, models.Feedback{
		ProjectID:  p.ID,
		CustomerID: p.CustomerID,
		Rating:     req.Rating,
		Comment:    ugc.Sanitize(req.Comment),
	})
	if err != nil {
		if errors.Is(err, feedbackstore.ErrBadRating) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("feedback create failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not record feedback")
		return
	}

	httpjson.Created(w, fb)
}

// HandleListIterations returns the project's iteration requests, newest
// first.
//
// Route: GET /projects/{id}/iterations
func (h *Handler) HandleListIterations(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	list, err := h.Feedback.ListIterations(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("iteration list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list iterations")
		return
	}
	httpjson.OK(w, list)
}

type createIterationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HandleCreateIteration records a revision request against the project.
//
// Route: POST /projects/{id}/iterations
func (h *Handler) HandleCreateIteration(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	var req createIterationRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httpjson.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projShortTimeout)
	defer cancel()

	it, err := h.Feedback.CreateIteration(ctx, models.Iteration{
		ProjectID:   p.ID,
		RequestedBy: p.CustomerID,
		Title:       req.Title,
		Description: ugc.Sanitize(req.Description),
	})
	if err != nil {
		h.Log.Error("iteration create failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not record iteration")
		return
	}

	httpjson.Created(w, it)
}
