// internal/app/features/dashboard/handler.go
package dashboard

import (
	"time"

	statsstore "github.com/webstackhq/webstack/internal/app/store/stats"
	"go.uber.org/zap"
)

const dashTimeout = 15 * time.Second

// Handler serves the role-scoped dashboard aggregates.
type Handler struct {
	Stats *statsstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a dashboard handler.
func NewHandler(stats *statsstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Stats: stats, Log: logger}
}
