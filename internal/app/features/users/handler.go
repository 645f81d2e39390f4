// internal/app/features/users/handler.go
package users

import (
	"time"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"go.uber.org/zap"
)

const (
	usersShortTimeout = 5 * time.Second
	usersMedTimeout   = 10 * time.Second
)

// Handler is the feature-level entry point for user accounts: the
// self-service profile, password change, and the admin delete.
type Handler struct {
	Users  *userstore.Store
	Tokens *token.Service
	Log    *zap.Logger
}

// NewHandler constructs a users handler.
func NewHandler(users *userstore.Store, tokens *token.Service, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}
