// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/authz"
)

// Routes mounts all Project routes under the base path (typically
// "/projects" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Any signed-in role: listings are scoped per role inside the
	// handlers, and per-project access goes through the project policy.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleView)

		pr.Get("/{id}/tasks", h.HandleListTasks)
		pr.Get("/{id}/team-members", h.HandleListTeam)

		pr.Get("/{id}/messages", h.HandleListMessages)
		pr.Post("/{id}/messages", h.HandleCreateMessage)

		pr.Get("/{id}/feedback", h.HandleListFeedback)
		pr.Get("/{id}/iterations", h.HandleListIterations)

		pr.Get("/{id}/files", h.HandleListFiles)
		pr.Post("/{id}/files", h.HandleCreateFile)
	})

	// Customers (and admins) create projects and write feedback.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleCustomer, authz.RoleAdmin))

		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/feedback", h.HandleCreateFeedback)
		pr.Post("/{id}/iterations", h.HandleCreateIteration)
	})

	// Admin-only: project field edits, deletion, roster management, and
	// payment history.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin))

		pr.Patch("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/team-members", h.HandleAddTeamMember)
		pr.Delete("/{id}/team-members/{userId}", h.HandleRemoveTeamMember)

		pr.Get("/{id}/payments", h.HandleListPayments)
	})

	return r
}
