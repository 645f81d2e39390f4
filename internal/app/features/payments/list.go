// internal/app/features/payments/list.go
package payments

import (
	"context"
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleList returns every payment record, newest first. Records whose
// project was deleted appear with a null project_id.
//
// Route: GET /payments
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), paymentsTimeout)
	defer cancel()

	list, err := h.Payments.ListAll(ctx)
	if err != nil {
		h.Log.Error("payment list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list payments")
		return
	}
	httpjson.OK(w, list)
}
