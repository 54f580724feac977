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

// UserModule wires the user management routes.
// All routes require a bearer token; listing, search, role changes and
// deletion additionally require the admin role.

type UserModule struct {
	Handler *handlers.UserHandler
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewUserModule(h *handlers.UserHandler, repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserModule {
	return &UserModule{Handler: h, Repo: repo, JWT: jwt, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Authenticate(m.Repo, m.JWT, m.Logger))
	{
		auth.POST("/avatar", m.Handler.UploadAvatar)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRole(entity.RoleAdmin))
		{
			admin.GET("", m.Handler.List)
			admin.GET("/search", m.Handler.Search)
			admin.PUT("/:id/role", m.Handler.UpdateRole)
			admin.DELETE("/:id", m.Handler.Delete)
		}
	}
}
