// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work under a project. AssignedTo is nil until a team
// member picks it up or an admin assigns it.
type Task struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID  primitive.ObjectID  `bson:"project_id" json:"project_id"`
	AssignedTo *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`

	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus `bson:"status" json:"status"`
	TaskGroup   string     `bson:"task_group,omitempty" json:"task_group,omitempty"`
	Priority    string     `bson:"priority,omitempty" json:"priority,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
