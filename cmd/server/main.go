package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/saidulalimallick04/smart-to-do-api/internal/di"
	"github.com/saidulalimallick04/smart-to-do-api/internal/middleware"
	"github.com/saidulalimallick04/smart-to-do-api/internal/migrations"
	"github.com/saidulalimallick04/smart-to-do-api/internal/service"
	"github.com/saidulalimallick04/smart-to-do-api/internal/token"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/config"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/database"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/logger"
	pkgredis "github.com/saidulalimallick04/smart-to-do-api/pkg/redis"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Smart To Do API...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Run embedded migrations
	if err := db.Migrate(ctx, migrations.Migrations); err != nil {
		appLog.Fatal(fmt.Sprintf("Database migration failed: %v", err))
	}
	appLog.Info("Database migrations applied")

	// Initialize Redis (optional, backs the login rate limiter)
	var rdb *pkgredis.Client
	if cfg.Redis.Enabled {
		rdb, err = pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Redis connection failed, login rate limiting disabled: %v", err))
			rdb = nil
		} else {
			defer rdb.Close()
			appLog.Info("Redis connected")
		}
	}

	// Build token codec
	codec, err := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Token codec setup failed: %v", err))
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:    db,
		Redis: rdb,
		Codec: codec,
		Auth: &service.AuthServiceConfig{
			AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
			RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
			BcryptCost:      12,
		},
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	// Landing and health endpoints
	router.GET("/", container.HealthHandler.Landing)
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", container.AuthHandler.Register)
			auth.POST("/login",
				middleware.LoginRateLimiter(redisClient(rdb), middleware.LoginRateLimitConfig{
					Limit:  cfg.RateLimit.LoginLimit,
					Window: cfg.RateLimit.LoginWindow,
				}),
				container.AuthHandler.Login,
			)
			auth.POST("/refresh", container.AuthHandler.Refresh)

			protected := auth.Group("")
			protected.Use(middleware.RequireAuth(container.AuthService))
			{
				protected.GET("/me", container.AuthHandler.Me)
			}
		}

		tasks := v1.Group("/tasks")
		tasks.Use(middleware.RequireAuth(container.AuthService))
		{
			tasks.POST("", container.TaskHandler.Create)
			tasks.GET("", container.TaskHandler.List)
			tasks.GET("/:id", container.TaskHandler.Get)
			tasks.PUT("/:id", container.TaskHandler.Update)
			tasks.DELETE("/:id", container.TaskHandler.Delete)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Smart To Do API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

func redisClient(c *pkgredis.Client) *redis.Client {
	if c == nil {
		return nil
	}
	return c.Client()
}
