// Package setup bootstraps application dependencies in the right order.
package setup

import (
	"context"

	"github.com/askaris/askaris/internal/database"
	"github.com/askaris/askaris/internal/redis"
	"github.com/askaris/askaris/internal/session"
	"github.com/askaris/askaris/internal/setup/config"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
type App struct {
	Config       *config.Config  // Application configuration
	Logger       *zap.Logger     // Main application logger
	DBLogger     *zap.Logger     // Database-specific logger
	DB           database.Client // Database connection pool
	RedisManager *redis.Manager  // Redis connection manager
	Sessions     *session.Store  // Session token store
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging comes up first to capture setup issues.
	logger, dbLogger, err := newLoggers(&cfg.Debug, logDir)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, &cfg.PostgreSQL, dbLogger, true)
	if err != nil {
		return nil, err
	}

	redisManager := redis.NewManager(&cfg.Redis, logger)

	sessionClient, err := redisManager.GetClient(redis.SessionDBIndex)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger,
		DB:           db,
		RedisManager: redisManager,
		Sessions:     session.NewStore(sessionClient, logger),
	}, nil
}

// Cleanup releases all resources in reverse initialization order.
func (a *App) Cleanup(_ context.Context) {
	a.RedisManager.Close()

	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Failed to close database", zap.Error(err))
	}

	_ = a.Logger.Sync()
	_ = a.DBLogger.Sync()
}
