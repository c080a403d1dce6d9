package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nimbus/client/internal/config"
	"github.com/nimbus/client/internal/domain"
	"github.com/nimbus/client/internal/service"
	"github.com/nimbus/client/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	// Logs go to stderr so they do not interleave with prompts on stdout.
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	client := service.NewPredictionClient(cfg.Predict.URL, cfg.Predict.Timeout,
		service.WithUserAgent(cfg.Predict.UserAgent),
		service.WithLogger(logger),
	)
	defaults := domain.FormInput{
		Location: cfg.Defaults.City,
		Activity: domain.Activity(cfg.Defaults.Activity),
	}
	coordinator := service.NewCoordinatorFactory(client, defaults, logger)()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := terminal.NewClient(terminal.NewSurveyDriver(), coordinator, os.Stdout, cfg.Display.Location())
	err = app.Run(ctx)
	coordinator.Controller().Close()

	switch {
	case err == nil, errors.Is(err, terminal.ErrAborted), errors.Is(err, context.Canceled):
		return
	default:
		logger.Error("terminal client failed", "error", err)
		os.Exit(1)
	}
}
