// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	authfeature "github.com/webstackhq/webstack/internal/app/features/auth"
	dashboardfeature "github.com/webstackhq/webstack/internal/app/features/dashboard"
	healthfeature "github.com/webstackhq/webstack/internal/app/features/health"
	messagesfeature "github.com/webstackhq/webstack/internal/app/features/messages"
	paymentsfeature "github.com/webstackhq/webstack/internal/app/features/payments"
	projectsfeature "github.com/webstackhq/webstack/internal/app/features/projects"
	tasksfeature "github.com/webstackhq/webstack/internal/app/features/tasks"
	usersfeature "github.com/webstackhq/webstack/internal/app/features/users"
	feedbackstore "github.com/webstackhq/webstack/internal/app/store/feedback"
	filestore "github.com/webstackhq/webstack/internal/app/store/files"
	membershipstore "github.com/webstackhq/webstack/internal/app/store/memberships"
	messagestore "github.com/webstackhq/webstack/internal/app/store/messages"
	paymentstore "github.com/webstackhq/webstack/internal/app/store/payments"
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	statsstore "github.com/webstackhq/webstack/internal/app/store/stats"
	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	userstore "github.com/webstackhq/webstack/internal/app/store/users"
	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/app/system/mailer"
	"github.com/webstackhq/webstack/internal/app/system/metrics"
	"github.com/webstackhq/webstack/internal/app/system/pubsub"
	"github.com/webstackhq/webstack/internal/app/system/token"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Token service and session manager. Secure cookies in production.
	tokens := token.New(appCfg.TokenSecret, appCfg.SessionTTL, appCfg.VerifyTTL)
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(tokens, appCfg.SessionCookie, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores.
	users := userstore.New(db)
	projects := projectstore.New(db)
	tasks := taskstore.New(db)
	memberships := membershipstore.New(db)
	messages := messagestore.New(db)
	feedback := feedbackstore.New(db)
	files := filestore.New(db)
	payments := paymentstore.New(db)
	stats := statsstore.New(db, projects)

	// Fresh user data on every request so role changes and deletions take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Outbound email.
	mail := mailer.New(
		appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName,
		logger,
	)

	// Message fan-out: in-process hub by default, Redis when running more
	// than one instance.
	var bus pubsub.Bus
	switch appCfg.FanoutBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		bus = pubsub.NewRedisBus(rdb, logger)
		logger.Info("fan-out backend: redis", zap.String("addr", appCfg.RedisAddr))
	default:
		bus = pubsub.NewHub()
		logger.Info("fan-out backend: memory")
	}

	r := chi.NewRouter()

	// Request metrics, then session loading. LoadSessionUser never rejects;
	// RequireSignedIn/RequireRole do that per route group.
	r.Use(metrics.Middleware)
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Account flows.
	authHandler := authfeature.NewHandler(users, tokens, mail, sessionMgr,
		appCfg.BaseURL, appCfg.BrandName, appCfg.VerifyTTL, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Role-scoped dashboard.
	dashboardHandler := dashboardfeature.NewHandler(stats, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Projects and their sub-resources.
	projectsHandler := &projectsfeature.Handler{
		DB:          db,
		Projects:    projects,
		Tasks:       tasks,
		Memberships: memberships,
		Messages:    messages,
		Feedback:    feedback,
		Files:       files,
		Payments:    payments,
		Users:       users,
		Bus:         bus,
		BrandName:   appCfg.BrandName,
		Log:         logger,
	}
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	// Tasks.
	tasksHandler := tasksfeature.NewHandler(db, tasks, projects, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Live message stream.
	messagesHandler := messagesfeature.NewHandler(db, projects, bus, appCfg.BrandName, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	// User accounts.
	usersHandler := usersfeature.NewHandler(users, tokens, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Payment history (admin).
	paymentsHandler := paymentsfeature.NewHandler(payments, logger)
	r.Mount("/payments", paymentsfeature.Routes(paymentsHandler, sessionMgr))

	return r, nil
}
