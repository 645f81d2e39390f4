// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to Webstack. Values
// come from environment variables (WEBSTACK_*), config files, or flags,
// loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token and session configuration
	TokenSecret   string        // HMAC secret for session and verification tokens
	SessionCookie string        // session cookie name
	SessionDomain string        // cookie domain (blank means current host)
	SessionTTL    time.Duration // session token lifetime
	VerifyTTL     time.Duration // verification / reset token lifetime

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL for email links (verification, password reset)
	BaseURL string

	// BrandName is the public-facing name used in email copy and shown to
	// customers in place of individual staff identities.
	BrandName string

	// Message fan-out backend: "memory" for the in-process hub, "redis"
	// to share fan-out across replicas.
	FanoutBackend string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}
