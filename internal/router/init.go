package router

import (
	"context"
	"fmt"

	appuser "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/container"
	repouser "github.com/oksasatya/go-user-registration/internal/domain/repository"
	pginfra "github.com/oksasatya/go-user-registration/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/router/modules"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() (UserModuleDeps, error) {
	cfg := container.GetConfig()

	emails, err := validation.NewEmailValidator(cfg.EmailPattern)
	if err != nil {
		return UserModuleDeps{}, fmt.Errorf("email pattern: %w", err)
	}
	hasher, err := helpers.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return UserModuleDeps{}, fmt.Errorf("bcrypt: %w", err)
	}

	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := appuser.NewService(
		repo,
		emails,
		hasher,
		container.GetJWT(),
		container.GetMessages(),
		container.GetLogger(),
	)
	service.Redis = container.GetRedis()
	if pub := container.GetRabbitPub(); pub != nil {
		service.Publisher = pub
	}

	handler := handlers.NewUserHandler(service, container.GetMessages(), container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}, nil
}

func buildHealthHandler() *handlers.HealthHandler {
	var database, sessions handlers.Check
	if pool := container.GetPGPool(); pool != nil {
		database = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		sessions = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return handlers.NewHealthHandler(database, sessions)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) error {
	cfg := container.GetConfig()

	userDeps, err := buildUserDeps()
	if err != nil {
		return err
	}

	r.Add(modules.NewHealthModule(buildHealthHandler()))
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT(), container.GetRedis(), container.GetMessages()))
	r.Add(modules.NewDocsModule())
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return nil
}
