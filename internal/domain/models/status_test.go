package models_test

import (
	"testing"

	"github.com/webstackhq/webstack/internal/domain/models"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      int
	}{
		{"no tasks", 0, 0, 0},
		{"negative total", 0, -1, 0},
		{"none completed", 0, 3, 0},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 67},
		{"half", 1, 2, 50},
		{"all completed", 5, 5, 100},
		{"one of eight", 1, 8, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.ProgressPercent(tt.completed, tt.total)
			if got != tt.want {
				t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range models.AllTaskStatuses {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if models.TaskStatus("done").Valid() {
		t.Error("expected 'done' to be invalid")
	}
	if models.TaskStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestTaskStatus_IsCompleted(t *testing.T) {
	if !models.TaskStatusCompleted.IsCompleted() {
		t.Error("completed should report IsCompleted")
	}
	if models.TaskStatusInProgress.IsCompleted() {
		t.Error("in_progress should not report IsCompleted")
	}
}

func TestProjectPhase_Valid(t *testing.T) {
	for _, p := range models.AllProjectPhases {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if models.ProjectPhase("archived").Valid() {
		t.Error("expected 'archived' to be invalid")
	}
}
