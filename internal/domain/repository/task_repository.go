package repository

import (
	"context"
	"time"

	"github.com/oksasatya/tasky/internal/domain/entity"
)

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	UserID   string
	Status   entity.Status
	Priority entity.Priority
	DueDate  string // YYYY-MM-DD, matches the due date's day

	SortByPriority string // "asc" or "desc"
	SortByStatus   string // "asc" or "desc"
}

// TaskUpdate is a partial-update struct applied in a single atomic write.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *entity.Priority
	Status      *entity.Status
}

// TaskRepository defines the persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*entity.Task, error)
	Update(ctx context.Context, id string, upd TaskUpdate) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
}
