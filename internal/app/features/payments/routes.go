// internal/app/features/payments/routes.go
package payments

import (
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/authz"
)

// Routes mounts the payment endpoints (mounted under /payments from
// bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin))
		pr.Get("/", h.HandleList)
	})
	return r
}
