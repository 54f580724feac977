package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
)

// TaskService owns the task CRUD policy: members act on their own tasks,
// admins on anyone's.
type TaskService struct {
	Repo   repository.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Logger: logger}
}

func canAccess(actor *entity.User, ownerID string) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    entity.Priority // empty means medium
	Status      entity.Status   // empty means pending
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
		UserID:      userID,
	}
	if t.Priority == "" {
		t.Priority = entity.PriorityMedium
	}
	if t.Status == "" {
		t.Status = entity.StatusPending
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, actor *entity.User, id string) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, t.UserID) {
		return nil, apperr.E(apperr.Authorization, "not authorized to access this task")
	}
	return t, nil
}

// ListAll returns every task; the route is admin-gated.
func (s *TaskService) ListAll(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	f.UserID = ""
	return s.Repo.List(ctx, f)
}

// ListOwn returns the caller's tasks, filtered and sorted.
func (s *TaskService) ListOwn(ctx context.Context, userID string, f repository.TaskFilter) ([]*entity.Task, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.E(apperr.Validation, "status must be pending, in_progress or done")
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, apperr.E(apperr.Validation, "priority must be low, medium or high")
	}
	f.UserID = userID
	return s.Repo.List(ctx, f)
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *entity.Priority
	Status      *entity.Status
}

func (s *TaskService) Update(ctx context.Context, actor *entity.User, id string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, t.UserID) {
		return nil, apperr.E(apperr.Authorization, "not authorized to update this task")
	}

	if in.Title != nil && (len(*in.Title) < 3 || len(*in.Title) > 100) {
		return nil, apperr.E(apperr.Validation, "title must be between 3 and 100 characters")
	}
	if in.Description != nil && len(*in.Description) > 1000 {
		return nil, apperr.E(apperr.Validation, "description cannot exceed 1000 characters")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, apperr.E(apperr.Validation, "priority must be low, medium or high")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.E(apperr.Validation, "status must be pending, in_progress or done")
	}

	return s.Repo.Update(ctx, id, repository.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
	})
}

func (s *TaskService) Delete(ctx context.Context, actor *entity.User, id string) error {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canAccess(actor, t.UserID) {
		return apperr.E(apperr.Authorization, "not authorized to delete this task")
	}
	return s.Repo.Delete(ctx, t.ID)
}
