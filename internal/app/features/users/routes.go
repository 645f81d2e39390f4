// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/authz"
)

// Routes mounts the user endpoints (mounted under /users from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
		pr.Patch("/me", h.HandleUpdateMe)
		pr.Patch("/me/password", h.HandleChangePassword)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin))
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
