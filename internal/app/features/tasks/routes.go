// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/authz"
)

// Routes mounts all Task routes under the base path (typically "/tasks"
// from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Any signed-in role may list and view; listings are role-scoped and a
	// customer's global task list is always empty.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleView)
	})

	// Staff manage tasks. Per-project access is enforced in the handlers.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin, authz.RoleTeamMember))

		pr.Post("/", h.HandleCreate)
		pr.Post("/bulk", h.HandleCreateBulk)
		pr.Patch("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
