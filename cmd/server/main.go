package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nimbus/client/internal/config"
	"github.com/nimbus/client/internal/delivery/http"
	"github.com/nimbus/client/internal/domain"
	"github.com/nimbus/client/internal/render"
	"github.com/nimbus/client/internal/service"
)

const sweepInterval = time.Minute

func main() {
	// Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	// Dependency Injection: Services
	client := service.NewPredictionClient(cfg.Predict.URL, cfg.Predict.Timeout,
		service.WithUserAgent(cfg.Predict.UserAgent),
		service.WithLogger(logger),
	)
	defaults := domain.FormInput{
		Location: cfg.Defaults.City,
		Activity: domain.Activity(cfg.Defaults.Activity),
	}
	registry := service.NewSessionRegistry(
		service.NewCoordinatorFactory(client, defaults, logger),
		cfg.Server.SessionTTL,
		logger,
	)

	theme, ok := render.ThemeByName(cfg.Display.Theme)
	if !ok {
		logger.Error("unknown theme", "theme", cfg.Display.Theme)
		os.Exit(1)
	}
	renderer, err := render.NewRenderer(theme, cfg.Display.Location())
	if err != nil {
		logger.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	// Fiber App
	handler := http.NewHandler(registry, renderer, client, cfg.Server.SubmitWait, cfg.Server.SessionTTL, logger)
	app := http.NewApp(http.AppConfig{
		Name:         "Nimbus Forecast Client v1.0",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		AccessLog:    os.Stdout,
	}, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Run(ctx, sweepInterval)

	// Graceful shutdown
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "env", cfg.Environment, "predict_url", cfg.Predict.URL)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Warn("server forced to shutdown", "error", err)
	}
	registry.Close()
	logger.Info("server exited gracefully")
}
