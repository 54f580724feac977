package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/repository"
	handlers "github.com/oksasatya/tasky/internal/interface/http"
	"github.com/oksasatya/tasky/internal/interface/middleware"
	"github.com/oksasatya/tasky/pkg/helpers"
)

// AuthModule wires registration, login and the OAuth redirect flow.
// Public: POST /api/auth/register, POST /api/auth/login,
//         GET /api/auth/:provider, GET /api/auth/:provider/callback
// Protected: POST /api/auth/logout

type AuthModule struct {
	Handler *handlers.AuthHandler
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewAuthModule(h *handlers.AuthHandler, repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, Repo: repo, JWT: jwt, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)

	rg.GET("/auth/:provider", m.Handler.OAuthRedirect)
	rg.GET("/auth/:provider/callback", m.Handler.OAuthCallback)

	auth := rg.Group("/")
	auth.Use(middleware.Authenticate(m.Repo, m.JWT, m.Logger))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
