// Package service holds the forecast request controller, the per-session
// root coordinator and the client for the external prediction backend.
package service

import (
	"log/slog"

	"github.com/nimbus/client/internal/domain"
)

// NewCoordinatorFactory returns a factory that wires every new session to
// the shared predictor and seeds its form with defaults
func NewCoordinatorFactory(predictor Predictor, defaults domain.FormInput, logger *slog.Logger) CoordinatorFactory {
	return func() *Coordinator {
		return NewCoordinator(NewForecastController(predictor, defaults, logger))
	}
}
