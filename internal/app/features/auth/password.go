// internal/app/features/auth/password.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"github.com/webstackhq/webstack/internal/app/system/mailer"
	"go.uber.org/zap"
)

// The forgot-password response never reveals whether the account exists.
const msgResetSent = "If an account exists for that email, a reset link has been sent"

type forgotRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword emails a reset link when the account exists. The
// response is identical either way.
//
// Route: POST /auth/forgot-password
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), authMedTimeout)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("forgot-password lookup failed", zap.Error(err))
		}
		httpjson.OK(w, map[string]string{"status": msgResetSent})
		return
	}

	tok, err := h.Tokens.IssueVerification(user.ID.Hex(), user.Email)
	if err != nil {
		h.Log.Error("reset token issue failed", zap.Error(err))
		httpjson.OK(w, map[string]string{"status": msgResetSent})
		return
	}

	email := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  h.BrandName,
		ResetLink: fmt.Sprintf("%s/auth/reset-password?token=%s", h.BaseURL, tok),
		ExpiresIn: formatTTL(h.VerifyTTL),
	})
	email.To = user.Email
	if err := h.Mail.Send(email); err != nil {
		h.Log.Warn("reset email failed", zap.Error(err), zap.String("email", user.Email))
	}

	httpjson.OK(w, map[string]string{"status": msgResetSent})
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// HandleResetPassword sets a new password from a reset token. The token is
// the same verification kind signup uses, so completing a reset also
// verifies the account.
//
// Route: POST /auth/reset-password
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, ok := h.verificationSubject(w, req.Token)
	if !ok {
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		httpjson.Error(w, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		return
	}

	hash, err := h.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not reset password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authShortTimeout)
	defer cancel()

	if err := h.Users.SetPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "account no longer exists")
			return
		}
		h.Log.Error("reset password failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not reset password")
		return
	}

	httpjson.OK(w, map[string]string{"status": "password updated"})
}
