// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a unit of project-scoped chat. Immutable once created.
//
// SenderName/SenderRole are denormalized at write time so history reads and
// broadcasts need no join. Customer-facing views replace a staff sender's
// name with the configured brand name; the stored record keeps the raw
// identity.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID  primitive.ObjectID `bson:"project_id" json:"project_id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`

	SenderName string `bson:"sender_name" json:"sender_name"`
	SenderRole string `bson:"sender_role" json:"sender_role"`
	Body       string `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
