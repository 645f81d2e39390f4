// internal/app/features/messages/sse.go
package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/webstackhq/webstack/internal/app/features/shared"
	"github.com/webstackhq/webstack/internal/app/policy/projectpolicy"
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/app/system/metrics"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeStream opens a Server-Sent Events stream of new messages on one
// project. The subscription lives as long as the request context; client
// disconnect tears it down and releases the bus slot.
//
// Route: GET /messages/sse?projectId={hex}
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("projectId"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad projectId")
		return
	}

	p, err := h.Projects.GetByID(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "project not found")
			return
		}
		h.Log.Error("stream project load failed", zap.Error(err), zap.String("project_id", projectID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not open stream")
		return
	}

	allowed, err := projectpolicy.CanAccess(r.Context(), h.DB, role, userID, p)
	if err != nil {
		h.Log.Error("stream access check failed", zap.Error(err), zap.String("project_id", projectID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not check access")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "you do not have access to this project")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httpjson.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub, err := h.Bus.Subscribe(r.Context(), projectID.Hex())
	if err != nil {
		h.Log.Error("stream subscribe failed", zap.Error(err), zap.String("project_id", projectID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not open stream")
		return
	}
	defer sub.Close()

	metrics.SSESubscribers.Inc()
	defer metrics.SSESubscribers.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, open := <-sub.C:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", h.renderForViewer(role, payload))
			flusher.Flush()
		}
	}
}

// renderForViewer applies the customer redaction to a broadcast payload.
// The bus carries the stored record; each subscriber sees it through their
// own role.
func (h *Handler) renderForViewer(viewerRole string, payload []byte) []byte {
	if viewerRole != authz.RoleCustomer {
		return payload
	}

	var m models.Message
	if err := json.Unmarshal(payload, &m); err != nil {
		// Unknown payload shape; pass through rather than drop.
		return payload
	}
	redacted, err := json.Marshal(shared.RedactMessage(viewerRole, h.BrandName, m))
	if err != nil {
		return payload
	}
	return redacted
}
