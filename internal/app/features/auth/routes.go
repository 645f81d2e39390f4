// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account endpoints (mounted under /auth from bootstrap).
// All of them are unauthenticated except signout, which simply clears the
// cookie and needs no session to succeed.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/signin", h.HandleSignin)
	r.Post("/signout", h.HandleSignout)

	r.Post("/verify", h.HandleVerify)

	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Post("/reset-password", h.HandleResetPassword)

	return r
}
