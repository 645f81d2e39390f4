// internal/app/features/payments/handler.go
package payments

import (
	"time"

	paymentstore "github.com/webstackhq/webstack/internal/app/store/payments"
	"go.uber.org/zap"
)

const paymentsTimeout = 10 * time.Second

// Handler serves the admin payment listing. Payments are read-only here;
// the billing pipeline writes them.
type Handler struct {
	Payments *paymentstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a payments handler.
func NewHandler(payments *paymentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Payments: payments, Log: logger}
}
