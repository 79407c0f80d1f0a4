package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BAZAR-APP/admin-panel/internal/app"
	"github.com/BAZAR-APP/admin-panel/internal/config"
	pkgconfig "github.com/BAZAR-APP/admin-panel/pkg/config"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	if err := pkgconfig.LoadDotenv(".env"); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("admin-panel", cfg.LogLevel)
	log.Info("starting admin panel",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("platform_url", cfg.PlatformURL),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("admin panel stopped")
}
