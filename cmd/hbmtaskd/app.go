package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/guyuexuan/hbmtaskd/internal/config"
	"github.com/guyuexuan/hbmtaskd/internal/orchestrator"
	"github.com/guyuexuan/hbmtaskd/internal/platform/bluemembers"
	"github.com/guyuexuan/hbmtaskd/internal/platform/postgres"
	"github.com/guyuexuan/hbmtaskd/internal/registry"
	"github.com/guyuexuan/hbmtaskd/internal/service/auth"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// application holds all initialized dependencies for the daemon and
// ensures proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accountStore store.AccountStore
	outcomeStore store.OutcomeStore
	registry     *registry.Registry

	platformClient *bluemembers.Client
	jwtService     auth.JWTService
	batch          *orchestrator.Batch
}

// newApplication wires the full dependency graph: database, migrations,
// stores, registry, platform client, answer resolver, orchestrator and
// operator auth.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		app.cleanup()
		return nil, err
	}

	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.outcomeStore = postgres.NewPostgresOutcomeStore(db, logger)

	app.registry = registry.New(app.accountStore, logger)
	if err := app.registry.Load(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	app.platformClient, err = bluemembers.NewClient(cfg.Platform, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create platform client: %w", err)
	}

	answerResolver, err := setupResolver(ctx, cfg, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to set up answer resolver: %w", err)
	}

	runner, err := orchestrator.New(app.platformClient, answerResolver, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	app.batch, err = orchestrator.NewBatch(runner, orchestrator.BatchConfig{
		WorkerCount: cfg.Runner.WorkerCount,
		QueueSize:   cfg.Runner.QueueSize,
	}, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create batch runner: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	logger.Info("application initialized", "accounts", len(app.registry.List()))
	return app, nil
}

// Run starts the operator HTTP server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
