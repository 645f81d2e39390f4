// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/webstackhq/webstack/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values. Authorization decisions throughout the app compare against
// these; the session middleware re-loads the live role on every request,
// so a role change takes effect on the next request, not the next login.
const (
	RoleCustomer   = "customer"
	RoleTeamMember = "team_member"
	RoleAdmin      = "admin"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false — callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in the session token - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleAdmin
}

// StaffRole reports whether a stored role string belongs to staff.
func StaffRole(role string) bool {
	role = strings.ToLower(role)
	return role == RoleAdmin || role == RoleTeamMember
}

// ValidRole reports whether a role string is one of the three known roles.
func ValidRole(role string) bool {
	switch strings.ToLower(role) {
	case RoleCustomer, RoleTeamMember, RoleAdmin:
		return true
	}
	return false
}
