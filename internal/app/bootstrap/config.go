// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Webstack.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_cookie, etc.
//   - Environment variables: WEBSTACK_MONGO_URI, WEBSTACK_SESSION_COOKIE, etc.
//   - Command-line flags: --mongo_uri, --session_cookie, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "webstack", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Tokens and sessions
	{Name: "token_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "HMAC secret for session and verification tokens (must be strong in production)"},
	{Name: "session_cookie", Default: "webstack-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "168h", Desc: "Session token lifetime (e.g., 168h, 24h)"},
	{Name: "verify_ttl", Default: "24h", Desc: "Verification/reset token lifetime (e.g., 24h, 90m)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@webstack.dev", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Webstack", Desc: "From display name"},

	// Base URL for email links (verification, password reset)
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},

	// Branding
	{Name: "brand_name", Default: "Webstack", Desc: "Public brand name shown to customers in message views"},

	// Message fan-out
	{Name: "fanout_backend", Default: "memory", Desc: "Message fan-out backend: 'memory' or 'redis'"},
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address for the redis fan-out backend"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, WEBSTACK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WEBSTACK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TokenSecret:   appValues.String("token_secret"),
		SessionCookie: appValues.String("session_cookie"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", token.DefaultSessionTTL),
		VerifyTTL:     appValues.Duration("verify_ttl", token.DefaultVerifyTTL),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:   appValues.String("base_url"),
		BrandName: appValues.String("brand_name"),

		FanoutBackend: appValues.String("fanout_backend"),
		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are dialed.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" && appCfg.TokenSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("token_secret must be set in production")
	}

	switch appCfg.FanoutBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("fanout_backend must be 'memory' or 'redis', got %q", appCfg.FanoutBackend)
	}
	if appCfg.FanoutBackend == "redis" && appCfg.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required when fanout_backend is 'redis'")
	}

	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if appCfg.VerifyTTL <= 0 {
		return fmt.Errorf("verify_ttl must be positive")
	}

	return nil
}
