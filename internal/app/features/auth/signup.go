// internal/app/features/auth/signup.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/app/system/mailer"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.uber.org/zap"
)

type signupRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type signupResponse struct {
	User    models.User `json:"user"`
	Warning string      `json:"warning,omitempty"`
}

// HandleSignup creates an unverified account and emails a verification
// link. The account cannot sign in until the link is used to set a
// password.
//
// Route: POST /auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == "" {
		httpjson.Error(w, http.StatusBadRequest, "user_name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Role == "" {
		req.Role = authz.RoleCustomer
	}
	if !authz.ValidRole(req.Role) {
		httpjson.Error(w, http.StatusBadRequest, "unknown role")
		return
	}
	// Anyone may sign up as a customer; staff accounts are provisioned by
	// a signed-in admin, never self-registered.
	if !strings.EqualFold(req.Role, authz.RoleCustomer) && !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusForbidden, "staff accounts are created by an administrator")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authMedTimeout)
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		UserName: req.UserName,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, userstore.ErrBadRole) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("signup failed", zap.Error(err), zap.String("email", req.Email))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	resp := signupResponse{User: user}
	if err := h.sendVerificationEmail(user); err != nil {
		// The account exists either way; surface delivery trouble without
		// failing the signup.
		h.Log.Warn("verification email failed",
			zap.Error(err),
			zap.String("email", user.Email))
		resp.Warning = "account created, but the verification email could not be sent"
	}

	httpjson.Created(w, resp)
}

func (h *Handler) sendVerificationEmail(user models.User) error {
	tok, err := h.Tokens.IssueVerification(user.ID.Hex(), user.Email)
	if err != nil {
		return err
	}

	email := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:   h.BrandName,
		VerifyLink: fmt.Sprintf("%s/auth/verify?token=%s", h.BaseURL, tok),
		ExpiresIn:  formatTTL(h.VerifyTTL),
	})
	email.To = user.Email
	return h.Mail.Send(email)
}
