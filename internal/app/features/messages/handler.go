// internal/app/features/messages/handler.go
package messages

import (
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	"github.com/webstackhq/webstack/internal/app/system/pubsub"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the live message stream. Message creation and history
// live under /projects/{id}/messages; this feature only attaches
// subscribers to the fan-out bus.
type Handler struct {
	DB       *mongo.Database
	Projects *projectstore.Store
	Bus      pubsub.Bus

	BrandName string
	Log       *zap.Logger
}

// NewHandler constructs a messages handler.
func NewHandler(db *mongo.Database, projects *projectstore.Store, bus pubsub.Bus, brandName string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Projects:  projects,
		Bus:       bus,
		BrandName: brandName,
		Log:       logger,
	}
}
