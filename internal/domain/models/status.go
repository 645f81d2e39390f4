// internal/domain/models/status.go
package models

import "math"

// TaskStatus is the closed set of workflow states a task can be in.
// Only TaskStatusCompleted carries cascade semantics: entering or leaving
// it adjusts the owning project's completed-task counter.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// AllTaskStatuses lists every accepted task status, used for validation.
var AllTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusBlocked,
}

// Valid reports whether s is one of the accepted task statuses.
func (s TaskStatus) Valid() bool {
	for _, v := range AllTaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsCompleted reports whether s is the completed state.
func (s TaskStatus) IsCompleted() bool { return s == TaskStatusCompleted }

// ProjectPhase is the closed set of lifecycle phases for a project.
type ProjectPhase string

const (
	PhasePlanning   ProjectPhase = "planning"
	PhaseInProgress ProjectPhase = "in_progress"
	PhaseReview     ProjectPhase = "review"
	PhaseCompleted  ProjectPhase = "completed"
)

// AllProjectPhases lists every accepted project phase, used for validation.
var AllProjectPhases = []ProjectPhase{
	PhasePlanning,
	PhaseInProgress,
	PhaseReview,
	PhaseCompleted,
}

// Valid reports whether p is one of the accepted project phases.
func (p ProjectPhase) Valid() bool {
	for _, v := range AllProjectPhases {
		if p == v {
			return true
		}
	}
	return false
}

// ProgressPercent derives the integer progress percentage from task counters:
// round(completed/total*100), and 0 whenever total is not positive.
func ProgressPercent(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
