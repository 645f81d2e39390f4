// internal/app/features/auth/verify.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type verifyRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleVerify consumes a verification token and sets the account's first
// password, marking it verified. Re-submitting a still-valid token just
// sets the password again; verification is idempotent.
//
// Route: POST /auth/verify
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, ok := h.verificationSubject(w, req.Token)
	if !ok {
		return
	}
	if len(req.Password) < minPasswordLength {
		httpjson.Error(w, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		return
	}

	hash, err := h.Tokens.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not set password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authShortTimeout)
	defer cancel()

	if err := h.Users.SetPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "account no longer exists")
			return
		}
		h.Log.Error("set password failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not set password")
		return
	}

	httpjson.OK(w, map[string]string{"status": "verified"})
}

// verificationSubject validates a verification token and returns its
// subject. Writes the error response itself on failure.
func (h *Handler) verificationSubject(w http.ResponseWriter, tok string) (primitive.ObjectID, bool) {
	claims, err := h.Tokens.Verify(tok)
	if err != nil || !claims.IsVerification() {
		// Session tokens are never accepted here, even validly signed ones.
		httpjson.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return primitive.NilObjectID, false
	}

	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// formatTTL renders a duration for email copy ("24 hours", "90 minutes").
func formatTTL(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}
