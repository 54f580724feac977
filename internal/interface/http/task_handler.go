package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/internal/interface/middleware"
	"github.com/oksasatya/tasky/pkg/response"
	"github.com/oksasatya/tasky/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=100"`
	Description string    `json:"description" binding:"omitempty,max=1000"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Priority    string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string    `json:"status" binding:"omitempty,oneof=pending in_progress done"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in_progress done"`
}

func filterFromQuery(c *gin.Context) repository.TaskFilter {
	return repository.TaskFilter{
		Status:         entity.Status(c.Query("status")),
		Priority:       entity.Priority(c.Query("priority")),
		DueDate:        c.Query("due_date"),
		SortByPriority: c.Query("sort_by_priority"),
		SortByStatus:   c.Query("sort_by_status"),
	}
}

func taskViews(tasks []*entity.Task) []gin.H {
	views := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView(t))
	}
	return views
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	actor := middleware.UserFrom(c)
	t, err := h.Svc.Create(c.Request.Context(), actor.ID, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    entity.Priority(req.Priority),
		Status:      entity.Status(req.Status),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, taskView(t), "task created", nil)
}

// ListAll GET /api/tasks (admin)
func (h *TaskHandler) ListAll(c *gin.Context) {
	tasks, err := h.Svc.ListAll(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, taskViews(tasks), "tasks", gin.H{"count": len(tasks)})
}

// ListOwn GET /api/tasks/me
func (h *TaskHandler) ListOwn(c *gin.Context) {
	actor := middleware.UserFrom(c)
	tasks, err := h.Svc.ListOwn(c.Request.Context(), actor.ID, filterFromQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, taskViews(tasks), "tasks", gin.H{"count": len(tasks)})
}

// Get GET /api/tasks/:id, owner or admin.
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), middleware.UserFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, taskView(t), "task", nil)
}

// Update PUT /api/tasks/:id, owner or admin.
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		p := entity.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := entity.Status(*req.Status)
		in.Status = &s
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.UserFrom(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, taskView(t), "task updated", nil)
}

// Delete DELETE /api/tasks/:id, owner or admin.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "task deleted", nil)
}
