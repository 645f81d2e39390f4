// internal/app/features/projects/messages.go
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/webstackhq/webstack/internal/app/features/shared"
	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/app/system/metrics"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleListMessages returns the project thread in chronological order.
// Customers see staff senders under the brand name.
//
// Route: GET /projects/{id}/messages
func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}
	role, _, _, _ := authz.UserCtx(r)

	msgs, err := h.Messages.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("message list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list messages")
		return
	}

	httpjson.OK(w, shared.RedactMessages(role, h.BrandName, msgs))
}

type createMessageRequest struct {
	Body string `json:"body"`
}

// HandleCreateMessage appends a message to the project thread and fans it
// out to live subscribers. Storage is the source of truth: the message is
// persisted first, and a failed broadcast only logs — subscribers catch up
// from the thread on their next fetch.
//
// Route: POST /projects/{id}/messages
func (h *Handler) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}
	role, name, userID, _ := authz.UserCtx(r)

	var req createMessageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body := strings.TrimSpace(ugc.Sanitize(req.Body))
	if body == "" {
		httpjson.Error(w, http.StatusBadRequest, "message body is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projMedTimeout)
	defer cancel()

	receiverID, err := h.resolveReceiver(ctx, role, p)
	if err != nil {
		h.Log.Error("receiver resolution failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not send message")
		return
	}

	msg, err := h.Messages.Create(ctx, models.Message{
		ProjectID:  p.ID,
		SenderID:   userID,
		ReceiverID: receiverID,
		SenderName: name,
		SenderRole: role,
		Body:       body,
	})
	if err != nil {
		h.Log.Error("message create failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not send message")
		return
	}

	h.broadcast(ctx, msg)

	httpjson.Created(w, shared.RedactMessage(role, h.BrandName, msg))
}

// resolveReceiver picks who a message is addressed to: customers write to
// the project's first assigned team member (or any admin when nobody is
// assigned yet), staff write to the owning customer.
func (h *Handler) resolveReceiver(ctx context.Context, senderRole string, p *models.Project) (primitive.ObjectID, error) {
	if authz.StaffRole(senderRole) {
		return p.CustomerID, nil
	}

	assignee, err := h.Tasks.FirstAssignee(ctx, p.ID)
	if err == nil {
		return assignee, nil
	}
	if !errors.Is(err, taskstore.ErrNotFound) {
		return primitive.NilObjectID, err
	}

	admin, err := h.Users.FirstAdmin(ctx)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// No staff at all; address the thread to the customer themselves.
			return p.CustomerID, nil
		}
		return primitive.NilObjectID, err
	}
	return admin.ID, nil
}

// broadcast publishes the stored message to the project's live topic.
func (h *Handler) broadcast(ctx context.Context, msg models.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.Log.Error("message marshal failed", zap.Error(err), zap.String("message_id", msg.ID.Hex()))
		metrics.MessagesBroadcast.WithLabelValues("failed").Inc()
		return
	}
	if err := h.Bus.Publish(ctx, msg.ProjectID.Hex(), payload); err != nil {
		h.Log.Warn("message broadcast failed", zap.Error(err), zap.String("project_id", msg.ProjectID.Hex()))
		metrics.MessagesBroadcast.WithLabelValues("failed").Inc()
		return
	}
	metrics.MessagesBroadcast.WithLabelValues("ok").Inc()
}
