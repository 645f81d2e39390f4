// internal/app/features/projects/team.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	membershipstore "github.com/webstackhq/webstack/internal/app/store/memberships"
	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleListTeam returns the project's team roster.
//
// Route: GET /projects/{id}/team-members
func (h *Handler) HandleListTeam(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	roster, err := h.Memberships.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("team roster list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list team members")
		return
	}
	httpjson.OK(w, roster)
}

type addTeamMemberRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddTeamMember enrolls a team member on the project. The user must
// exist and hold the team_member role.
//
// Route: POST /projects/{id}/team-members
func (h *Handler) HandleAddTeamMember(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	var req addTeamMemberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projMedTimeout)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("team member lookup failed", zap.Error(err), zap.String("user_id", req.UserID))
		httpjson.Error(w, http.StatusInternalServerError, "could not add team member")
		return
	}
	if user.Role != authz.RoleTeamMember {
		httpjson.Error(w, http.StatusBadRequest, "only team members can join a project team")
		return
	}

	m, err := h.Memberships.Add(ctx, p.ID, userID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrDuplicate) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("team member add failed", zap.Error(err),
			zap.String("project_id", p.ID.Hex()), zap.String("user_id", req.UserID))
		httpjson.Error(w, http.StatusInternalServerError, "could not add team member")
		return
	}

	httpjson.Created(w, m)
}

// HandleRemoveTeamMember drops a team member from the project roster. Any
// tasks assigned to them stay assigned; the roster and assignments are
// independent links.
//
// Route: DELETE /projects/{id}/team-members/{userId}
func (h *Handler) HandleRemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projShortTimeout)
	defer cancel()

	if err := h.Memberships.Remove(ctx, p.ID, userID); err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "membership not found")
			return
		}
		h.Log.Error("team member remove failed", zap.Error(err),
			zap.String("project_id", p.ID.Hex()), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not remove team member")
		return
	}

	httpjson.OK(w, map[string]string{"status": "removed"})
}
