// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/auth"
)

// Routes mounts the message stream endpoint (mounted under /messages from
// bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/sse", h.ServeStream)
	})
	return r
}
