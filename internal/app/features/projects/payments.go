// internal/app/features/projects/payments.go
package projects

import (
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleListPayments returns the payment history recorded against the
// project, newest first. Read-only: payments enter through the billing
// pipeline, not this API.
//
// Route: GET /projects/{id}/payments
func (h *Handler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	list, err := h.Payments.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("payment list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list payments")
		return
	}
	httpjson.OK(w, list)
}
