// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is a historical payment record. ProjectID becomes nil when the
// project is deleted; payment history outlives project lifetime.
type Payment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID  `bson:"customer_id" json:"customer_id"`
	ProjectID  *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`

	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency,omitempty" json:"currency,omitempty"`
	Status   string  `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
