package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/nimbus/client/internal/domain"
)

// ErrControllerClosed is returned by Submit once shutdown has begun
var ErrControllerClosed = errors.New("service: forecast controller is closed")

// Predictor is the outbound side of the forecast controller
type Predictor interface {
	Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionPayload, error)
}

// Submission tracks one issued forecast request
type Submission struct {
	ID   uint64
	done chan struct{}
}

// Done is closed once the request has settled, whether or not its result
// was applied
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until settlement or until ctx ends
func (s *Submission) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ForecastController owns the form input and the request state of one
// session. Only the latest submission may settle the state.
type ForecastController struct {
	predictor Predictor
	validate  *validator.Validate
	logger    *slog.Logger

	mu    sync.Mutex
	input domain.FormInput
	state  domain.RequestState
	seq    uint64
	active int
	closed bool

	inflight sync.WaitGroup
}

// NewForecastController creates a controller seeded with initial input
func NewForecastController(predictor Predictor, initial domain.FormInput, logger *slog.Logger) *ForecastController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastController{
		predictor: predictor,
		validate:  validator.New(),
		logger:    logger,
		input:     initial,
		state:     domain.IdleState(),
	}
}

// Input returns the current form values
func (c *ForecastController) Input() domain.FormInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// State returns the current request state
func (c *ForecastController) State() domain.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdateField sets one form field. It never touches the request state.
func (c *ForecastController) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "location", "city":
		c.input.Location = value
	case "activity":
		c.input.Activity = domain.Activity(value)
	default:
		return domain.ErrUnknownField
	}
	return nil
}

// Submit validates the form, moves the state to Pending and issues exactly
// one request in the background. The state change is visible to State
// before Submit returns. The request is not cancelled when ctx is.
func (c *ForecastController) Submit(ctx context.Context) (*Submission, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrControllerClosed
	}
	input := c.input
	input.Location = strings.TrimSpace(input.Location)
	if err := c.validate.Struct(input); err != nil {
		c.mu.Unlock()
		return nil, domain.NewValidationError(validationMessage(err), err)
	}

	c.seq++
	sub := &Submission{ID: c.seq, done: make(chan struct{})}
	c.state = domain.PendingState(sub.ID)
	c.active++
	c.inflight.Add(1)
	c.mu.Unlock()

	c.logger.Info("forecast submitted", "request_id", sub.ID, "city", input.Location, "activity", input.Activity)

	go func() {
		defer c.inflight.Done()
		defer close(sub.done)

		payload, err := c.predictor.Predict(context.WithoutCancel(ctx), input.Request())
		c.settle(sub.ID, payload, err)
	}()

	return sub, nil
}

// Wait blocks until every issued request has settled
func (c *ForecastController) Wait() {
	c.inflight.Wait()
}

// Busy reports whether any issued request has yet to settle
func (c *ForecastController) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active > 0
}

// Close refuses further submits and waits for the in-flight ones
func (c *ForecastController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.inflight.Wait()
}

func (c *ForecastController) settle(id uint64, payload domain.PredictionPayload, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active--

	if id != c.seq {
		c.logger.Info("discarding stale forecast response", "request_id", id, "latest", c.seq)
		return
	}

	if err != nil {
		c.logger.Warn("forecast failed", "request_id", id, "error", err)
		c.state = domain.FailedState(id, domain.FailureMessage(err))
		return
	}
	c.state = domain.SucceededState(id, payload)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form."
	}
	switch verrs[0].Field() {
	case "Location":
		if verrs[0].Tag() == "required" {
			return "Please enter a location."
		}
		return "Location is too long."
	case "Activity":
		return "Please choose an activity."
	}
	return "Please check the form."
}
