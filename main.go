package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/config"
	"github.com/giygas/antimalarial-dosage/data"
	"github.com/giygas/antimalarial-dosage/handlers"
	"github.com/giygas/antimalarial-dosage/health"
	"github.com/giygas/antimalarial-dosage/logging"
	"github.com/giygas/antimalarial-dosage/render"
	"github.com/giygas/antimalarial-dosage/scheduler"
	"github.com/giygas/antimalarial-dosage/server"
	"github.com/giygas/antimalarial-dosage/validation"
	"github.com/joho/godotenv"
)

func init() {
	// Get the working directory and read the env variables
	if err := godotenv.Load(); err != nil {
		// If failed, try loading from executable directory
		ex, err := os.Executable()
		if err != nil {
			slog.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		if err := os.Chdir(filepath.Dir(ex)); err != nil {
			slog.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}
		_ = godotenv.Load()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(logging.Options{
		LogDir:         cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() {
		if err := logging.Close(); err != nil {
			slog.Error("Failed to close logger", "error", err)
		}
	}()

	logging.Info("Starting antimalarial dosage service",
		"env", cfg.Env.String(),
		"catalog", catalogSource(cfg.CatalogPath),
		"reload_interval", cfg.CatalogReloadInterval.String())

	app, err := newApp(cfg)
	if err != nil {
		logging.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.server.Start()
	}()

	select {
	case <-quit:
		logging.Info("Received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			logging.Error("Server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app.shutdown(ctx)
	logging.Info("Server exited")
}

// app groups the long-lived components so they can be stopped together
type app struct {
	scheduler *scheduler.Scheduler
	server    *server.Server
}

// newApp wires the store, the scheduler and the HTTP server. The initial
// catalog load happens here and fails the startup.
func newApp(cfg *config.Config) (*app, error) {
	store := data.NewCatalogContainer()
	store.SetServerStartTime(time.Now())

	sched := scheduler.NewScheduler(store, catalog.NewLoader(cfg.CatalogPath),
		validation.NewCatalogValidator(), cfg.CatalogReloadInterval)
	if err := sched.Start(); err != nil {
		return nil, err
	}

	localizer, err := render.NewLocalizer(config.SupportedLanguages, cfg.DefaultLanguage)
	if err != nil {
		sched.Stop()
		return nil, err
	}

	handler := handlers.NewHTTPHandler(store, validation.NewCatalogValidator(),
		health.NewHealthChecker(store, cfg.CatalogReloadInterval), localizer)

	return &app{
		scheduler: sched,
		server:    server.NewServer(cfg, handler),
	}, nil
}

func (a *app) shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}
	a.scheduler.Stop()
}

func catalogSource(path string) string {
	if path == "" {
		return catalog.SourceEmbedded
	}
	return path
}
