// internal/app/system/token/token.go

// Package token is the credential and token service: bcrypt password
// hashing/verification and signed session/verification tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the fixed work factor for password hashes.
	BcryptCost = 10

	// DefaultSessionTTL is the lifetime of a login session token.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultVerifyTTL is the lifetime of an email-verification or
	// password-reset token.
	DefaultVerifyTTL = 24 * time.Hour

	// PurposeVerification marks tokens usable only for the email
	// verification / password reset flow, never as a login session.
	PurposeVerification = "verification"
)

// ErrInvalidToken is returned by Verify for any token that cannot be
// trusted: bad signature, wrong algorithm, expired, malformed. Callers get
// exactly one failure mode; the service fails closed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified content of a token.
type Claims struct {
	UserID  string
	Email   string
	Role    string // empty on verification tokens
	Purpose string // empty on session tokens
}

// IsVerification reports whether the claims came from a verification token.
func (c *Claims) IsVerification() bool { return c.Purpose == PurposeVerification }

// Service issues and verifies tokens and hashes passwords.
type Service struct {
	secret     []byte
	sessionTTL time.Duration
	verifyTTL  time.Duration
}

// New creates a Service. Zero TTLs fall back to the defaults.
func New(secret string, sessionTTL, verifyTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if verifyTTL <= 0 {
		verifyTTL = DefaultVerifyTTL
	}
	return &Service{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		verifyTTL:  verifyTTL,
	}
}

// HashPassword turns a plaintext password into a bcrypt hash.
func (s *Service) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks a plaintext password against a stored hash.
// An empty hash never matches: accounts without a set password cannot
// sign in.
func (s *Service) VerifyPassword(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueSession creates a login session token carrying user id, email, and
// role.
func (s *Service) IssueSession(userID, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.sessionTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueVerification creates a token for the email verification / password
// reset flow. It carries no role and cannot be used as a session.
func (s *Service) IssueVerification(userID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"email":   email,
		"purpose": PurposeVerification,
		"iat":     now.Unix(),
		"exp":     now.Add(s.verifyTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token. Any failure — signature mismatch,
// unexpected algorithm, expiry, malformed claims — yields ErrInvalidToken.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}

	c := &Claims{UserID: sub}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	}
	if v, ok := mc["purpose"].(string); ok {
		c.Purpose = v
	}
	return c, nil
}
