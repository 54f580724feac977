package entity

import (
	"strings"
	"time"

	"github.com/oksasatya/tasky/pkg/apperr"
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the closed set of task statuses.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a single personal task owned by a user.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Status      Status
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces the task field constraints before a write.
func (t *Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if len(title) < 3 || len(title) > 100 {
		return apperr.E(apperr.Validation, "title must be between 3 and 100 characters")
	}
	if len(t.Description) > 1000 {
		return apperr.E(apperr.Validation, "description cannot exceed 1000 characters")
	}
	if t.DueDate.IsZero() {
		return apperr.E(apperr.Validation, "due date is required")
	}
	if !t.Priority.Valid() {
		return apperr.E(apperr.Validation, "priority must be low, medium or high")
	}
	if !t.Status.Valid() {
		return apperr.E(apperr.Validation, "status must be pending, in_progress or done")
	}
	if t.UserID == "" {
		return apperr.E(apperr.Validation, "task must be associated with a user")
	}
	return nil
}
