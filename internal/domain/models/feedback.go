// internal/domain/models/feedback.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is an append-only, project-scoped note from the owning customer
// (or an admin on their behalf).
type Feedback struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID  primitive.ObjectID `bson:"project_id" json:"project_id"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customer_id"`

	Rating  int    `bson:"rating" json:"rating"` // 1-5
	Comment string `bson:"comment" json:"comment"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Iteration is a project-scoped revision request. Like feedback it is
// append-only and removed only by the project cascade delete.
type Iteration struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	RequestedBy primitive.ObjectID `bson:"requested_by" json:"requested_by"`

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
