// Package main implements the entry point for the hbmtaskd daemon,
// which automates the daily tasks of registered Blue Members accounts
// and exposes an operator HTTP API for managing them.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/guyuexuan/hbmtaskd/internal/config"
	"github.com/guyuexuan/hbmtaskd/internal/platform/logger"
)

func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"platform_base_url", cfg.Platform.BaseURL,
		"manual_answer", cfg.AI.ManualAnswer,
		"worker_count", cfg.Runner.WorkerCount)

	return cfg, appLogger, nil
}
