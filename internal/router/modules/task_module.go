package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	handlers "github.com/oksasatya/tasky/internal/interface/http"
	"github.com/oksasatya/tasky/internal/interface/middleware"
	"github.com/oksasatya/tasky/pkg/helpers"
)

// TaskModule wires the task CRUD routes. Members operate on their own tasks;
// the full listing is admin-only.

type TaskModule struct {
	Handler *handlers.TaskHandler
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewTaskModule(h *handlers.TaskHandler, repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *TaskModule {
	return &TaskModule{Handler: h, Repo: repo, JWT: jwt, Logger: logger}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/tasks")
	auth.Use(middleware.Authenticate(m.Repo, m.JWT, m.Logger))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/me", m.Handler.ListOwn)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRole(entity.RoleAdmin))
		{
			admin.GET("", m.Handler.ListAll)
		}
	}
}
