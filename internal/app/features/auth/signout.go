// internal/app/features/auth/signout.go
package auth

import (
	"net/http"

	"github.com/webstackhq/webstack/internal/app/system/httpjson"
)

// HandleSignout clears the session cookie. Succeeds whether or not a
// session existed.
//
// Route: POST /auth/signout
func (h *Handler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearCookie(w)
	httpjson.OK(w, map[string]string{"status": "signed out"})
}
