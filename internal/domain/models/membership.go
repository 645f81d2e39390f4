// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectTeamMember links a team_member user to a project, granting durable
// visibility independent of task assignment. Created and removed only by
// admins.
type ProjectTeamMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
}
