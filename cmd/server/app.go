package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/metrics"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	authService service.AuthService
	taskService service.TaskService
	userService service.UserService

	metrics *metrics.Metrics
}

// newApplication wires the PostgreSQL stores into the services.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	return newApplicationWithStores(
		cfg,
		log,
		postgres.NewPostgresUserStore(db, log),
		postgres.NewPostgresTaskStore(db, log),
		db,
	)
}

// newApplicationWithStores builds the services on top of the given stores.
// db may be nil when the stores do not need it.
func newApplicationWithStores(
	cfg *config.Config,
	log *slog.Logger,
	userStore store.UserStore,
	taskStore store.TaskStore,
	db *sql.DB,
) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_hours", cfg.Auth.TokenLifetimeHours))

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app := &application{
		config:      cfg,
		logger:      log,
		db:          db,
		userStore:   userStore,
		taskStore:   taskStore,
		authService: service.NewAuthService(userStore, hasher, jwtService, log),
		taskService: service.NewTaskService(taskStore, log),
		userService: service.NewUserService(userStore, log),
		metrics:     metrics.New(nil),
	}

	log.Info("application initialized")
	return app, nil
}

// Run serves the API until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
