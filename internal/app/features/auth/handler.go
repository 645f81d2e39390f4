// internal/app/features/auth/handler.go
package auth

import (
	"time"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	sysauth "github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/mailer"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"go.uber.org/zap"
)

const (
	authShortTimeout = 5 * time.Second
	authMedTimeout   = 10 * time.Second

	minPasswordLength = 8
)

// Handler is the feature-level entry point for account flows: signup,
// sign-in, sign-out, verification, and password reset.
type Handler struct {
	Users    *userstore.Store
	Tokens   *token.Service
	Mail     *mailer.Mailer
	Sessions *sysauth.SessionManager

	BaseURL   string
	BrandName string
	VerifyTTL time.Duration

	Log *zap.Logger
}

// NewHandler constructs an auth handler.
func NewHandler(users *userstore.Store, tokens *token.Service, mail *mailer.Mailer, sessions *sysauth.SessionManager, baseURL, brandName string, verifyTTL time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     users,
		Tokens:    tokens,
		Mail:      mail,
		Sessions:  sessions,
		BaseURL:   baseURL,
		BrandName: brandName,
		VerifyTTL: verifyTTL,
		Log:       logger,
	}
}
