// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a customer's website-development request.
//
// The three counter fields are derived state maintained exclusively by the
// task lifecycle (see store/projects.ApplyTaskDelta). Invariant:
// ProgressPercentage == ProgressPercent(CompletedTasks, TotalTasks).
type Project struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customer_id"`

	Title       string       `bson:"title" json:"title"`
	TitleCI     string       `bson:"title_ci" json:"-"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Phase       ProjectPhase `bson:"phase" json:"phase"`

	PricingTier  string     `bson:"pricing_tier" json:"pricing_tier"`
	Budget       float64    `bson:"budget,omitempty" json:"budget,omitempty"`
	PaymentType  string     `bson:"payment_type,omitempty" json:"payment_type,omitempty"`
	StartDate    *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	DurationDays int        `bson:"duration_days,omitempty" json:"duration_days,omitempty"`
	Priority     string     `bson:"priority,omitempty" json:"priority,omitempty"`
	Visibility   string     `bson:"visibility,omitempty" json:"visibility,omitempty"`

	TotalTasks         int64 `bson:"total_tasks" json:"total_tasks"`
	CompletedTasks     int64 `bson:"completed_tasks" json:"completed_tasks"`
	ProgressPercentage int   `bson:"progress_percentage" json:"progress_percentage"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
