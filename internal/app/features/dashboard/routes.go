// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/auth"
)

// Routes mounts the dashboard endpoint (mounted under /dashboard from
// bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.Serve)
	})
	return r
}
