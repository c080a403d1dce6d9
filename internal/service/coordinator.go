package service

import (
	"sync"

	"github.com/nimbus/client/internal/domain"
)

// Coordinator is the root of one session: it owns which view is shown and
// the forecast controller behind the forecast view
type Coordinator struct {
	mu         sync.RWMutex
	view       domain.View
	controller *ForecastController
}

// NewCoordinator starts a session on the welcome view
func NewCoordinator(controller *ForecastController) *Coordinator {
	return &Coordinator{
		view:       domain.ViewWelcome,
		controller: controller,
	}
}

// View returns the active view
func (c *Coordinator) View() domain.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Enter leaves the welcome gate for the rest of the session. Calling it
// again has no effect.
func (c *Coordinator) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = domain.ViewForecast
}

// Controller returns the session's forecast controller
func (c *Coordinator) Controller() *ForecastController {
	return c.controller
}
