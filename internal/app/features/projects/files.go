// internal/app/features/projects/files.go
package projects

import (
	"context"
	"net/http"
	"strings"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.uber.org/zap"
)

// HandleListFiles returns the project's file records, newest first.
//
// Route: GET /projects/{id}/files
func (h *Handler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}

	list, err := h.Files.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("file list failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not list files")
		return
	}
	httpjson.OK(w, list)
}

type createFileRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// HandleCreateFile records file metadata against the project. The response
// carries the minted storage key the client uploads the binary under; the
// blob backend itself is outside this service.
//
// Route: POST /projects/{id}/files
func (h *Handler) HandleCreateFile(w http.ResponseWriter, r *http.Request) {
	p := h.loadProject(w, r)
	if p == nil {
		return
	}
	_, _, userID, _ := authz.UserCtx(r)

	var req createFileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Size < 0 {
		httpjson.Error(w, http.StatusBadRequest, "size must not be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projShortTimeout)
	defer cancel()

	f, err := h.Files.Create(ctx, models.File{
		ProjectID:   p.ID,
		UploaderID:  userID,
		Name:        req.Name,
		ContentType: req.ContentType,
		Size:        req.Size,
	})
	if err != nil {
		h.Log.Error("file create failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not record file")
		return
	}

	httpjson.Created(w, f)
}
