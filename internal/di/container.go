package di

import (
	"github.com/saidulalimallick04/smart-to-do-api/internal/handler"
	"github.com/saidulalimallick04/smart-to-do-api/internal/repository"
	"github.com/saidulalimallick04/smart-to-do-api/internal/service"
	"github.com/saidulalimallick04/smart-to-do-api/internal/token"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/database"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/redis"
)

// Container holds all dependencies for the API
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client
	Codec *token.Codec

	// Repositories
	UserRepo repository.UserRepository
	TaskRepo repository.TaskRepository

	// Services
	AuthService service.AuthService
	TaskService service.TaskService

	// Handlers
	HealthHandler *handler.HealthHandler
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB    *database.PostgresDB
	Redis *redis.Client
	Codec *token.Codec
	Auth  *service.AuthServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
		Codec: cfg.Codec,
	}

	// Initialize repositories
	c.UserRepo = repository.NewPostgresUserRepository(c.DB.Pool())
	c.TaskRepo = repository.NewPostgresTaskRepository(c.DB.Pool())

	// Initialize services
	c.AuthService = service.NewAuthService(c.UserRepo, c.Codec, cfg.Auth)
	c.TaskService = service.NewTaskService(c.TaskRepo)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.TaskHandler = handler.NewTaskHandler(c.TaskService)

	return c
}
