package router

import (
	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/container"
	pginfra "github.com/oksasatya/tasky/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/tasky/internal/interface/http"
	"github.com/oksasatya/tasky/internal/router/modules"
)

// InitModules builds the feature modules from the container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	taskRepo := pginfra.NewTaskRepository(container.GetPGPool())

	indexer := application.NewUserIndexer(container.GetES(), cfg.ESUsersIndex, logger)

	authSvc := application.NewAuthService(userRepo, container.GetHasher(), container.GetJWT(),
		container.GetRabbitPub(), indexer, logger)
	oauthSvc := application.NewOAuthService(userRepo, container.GetRedis(), indexer, logger)
	userSvc := application.NewUserService(userRepo, container.GetHasher(), container.GetGCS(),
		cfg.GCSBucket, indexer, logger)
	taskSvc := application.NewTaskService(taskRepo, logger)

	authHandler := handlers.NewAuthHandler(authSvc, oauthSvc, container.GetOAuthProviders(), cfg.FrontendURL, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)
	taskHandler := handlers.NewTaskHandler(taskSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, userRepo, container.GetJWT(), logger))
	r.Add(modules.NewUserModule(userHandler, userRepo, container.GetJWT(), logger))
	r.Add(modules.NewTaskModule(taskHandler, userRepo, container.GetJWT(), logger))
}
