package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/nimbus/client/internal/domain"
	"github.com/nimbus/client/internal/render"
	"github.com/nimbus/client/internal/service"
)

const (
	coordinatorKey = "coordinator"
	requestIDKey   = "requestid"
	sessionCookie  = "nimbus_session"

	enterPath    = "/enter"
	forecastPath = "/forecast"
)

// BreakerReporter exposes the outbound circuit state for health checks
type BreakerReporter interface {
	BreakerState() string
}

// Handler contains all HTTP handlers
type Handler struct {
	registry   *service.SessionRegistry
	store      *session.Store
	renderer   *render.Renderer
	breaker    BreakerReporter
	submitWait time.Duration
	logger     *slog.Logger
}

// NewHandler creates a new handler. Session cookies live as long as the
// registry keeps idle sessions.
func NewHandler(registry *service.SessionRegistry, renderer *render.Renderer, breaker BreakerReporter, submitWait, sessionTTL time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: registry,
		store: session.New(session.Config{
			Expiration:     sessionTTL,
			KeyLookup:      "cookie:" + sessionCookie,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
		renderer:   renderer,
		breaker:    breaker,
		submitWait: submitWait,
		logger:     logger,
	}
}

// Session resolves the browser session to its coordinator
func (h *Handler) Session(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}
	id := sess.ID()
	if err := sess.Save(); err != nil {
		h.logger.Error("failed to save session", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save session")
	}

	c.Locals(coordinatorKey, h.registry.Get(id))
	return c.Next()
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "nimbus-client",
		"version":  "1.0.0",
		"breaker":  h.breaker.BreakerState(),
		"sessions": h.registry.Len(),
	})
}

// Index renders whichever view the session is on
func (h *Handler) Index(c *fiber.Ctx) error {
	coord := coordinatorOf(c)
	if coord.View() == domain.ViewWelcome {
		return h.writeWelcome(c)
	}
	ctrl := coord.Controller()
	return h.writeForecast(c, fiber.StatusOK, ctrl.Input(), ctrl.State(), "")
}

// Enter is the welcome gate's only action
func (h *Handler) Enter(c *fiber.Ctx) error {
	coordinatorOf(c).Enter()
	return c.Redirect("/", fiber.StatusSeeOther)
}

// SubmitForm takes the forecast form post, starts a request and waits a
// bounded time for it so most results arrive with the redirect
func (h *Handler) SubmitForm(c *fiber.Ctx) error {
	coord := coordinatorOf(c)
	if coord.View() != domain.ViewForecast {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	ctrl := coord.Controller()

	// Form values alias the pooled request buffer; the controller keeps
	// them past this request.
	if err := ctrl.UpdateField("location", utils.CopyString(c.FormValue("location"))); err != nil {
		return err
	}
	if err := ctrl.UpdateField("activity", utils.CopyString(c.FormValue("activity"))); err != nil {
		return err
	}

	sub, err := ctrl.Submit(requestContext(c))
	if err != nil {
		var perr *domain.PredictionError
		if errors.As(err, &perr) && perr.Kind == domain.FailureValidation {
			return h.writeForecast(c, fiber.StatusUnprocessableEntity, ctrl.Input(), ctrl.State(), perr.Message)
		}
		return submitError(err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.submitWait)
	defer cancel()
	if err := sub.Wait(ctx); err != nil {
		h.logger.Debug("forecast still pending after submit wait", "request_id", sub.ID)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// GetSession returns the session's view, form and request state
func (h *Handler) GetSession(c *fiber.Ctx) error {
	return c.JSON(sessionBody(coordinatorOf(c)))
}

// APIEnter is the JSON form of Enter
func (h *Handler) APIEnter(c *fiber.Ctx) error {
	coord := coordinatorOf(c)
	coord.Enter()
	return c.JSON(sessionBody(coord))
}

type fieldUpdate struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UpdateInput changes one form field
func (h *Handler) UpdateInput(c *fiber.Ctx) error {
	coord, err := forecastCoordinator(c)
	if err != nil {
		return err
	}

	var body fieldUpdate
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := coord.Controller().UpdateField(body.Name, body.Value); err != nil {
		if errors.Is(err, domain.ErrUnknownField) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown field: "+body.Name)
		}
		return err
	}
	return c.JSON(sessionBody(coord))
}

// Submit starts a forecast request and answers before it settles
func (h *Handler) Submit(c *fiber.Ctx) error {
	coord, err := forecastCoordinator(c)
	if err != nil {
		return err
	}

	ctrl := coord.Controller()
	sub, err := ctrl.Submit(requestContext(c))
	if err != nil {
		var perr *domain.PredictionError
		if errors.As(err, &perr) && perr.Kind == domain.FailureValidation {
			return fiber.NewError(fiber.StatusUnprocessableEntity, perr.Message)
		}
		return submitError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"request_id": sub.ID,
		"state":      ctrl.State(),
	})
}

func (h *Handler) writeWelcome(c *fiber.Ctx) error {
	var buf bytes.Buffer
	page := h.renderer.BuildWelcomePage(render.NewWelcomeView(enterPath))
	if err := h.renderer.WriteWelcome(&buf, page); err != nil {
		h.logger.Error("failed to render welcome page", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *Handler) writeForecast(c *fiber.Ctx, status int, input domain.FormInput, state domain.RequestState, formErr string) error {
	var buf bytes.Buffer
	page := h.renderer.BuildForecastPage(forecastPath, input, state, formErr)
	if err := h.renderer.WriteForecast(&buf, page); err != nil {
		h.logger.Error("failed to render forecast page", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func submitError(err error) error {
	if errors.Is(err, service.ErrControllerClosed) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Service is shutting down")
	}
	return err
}

func coordinatorOf(c *fiber.Ctx) *service.Coordinator {
	return c.Locals(coordinatorKey).(*service.Coordinator)
}

func forecastCoordinator(c *fiber.Ctx) (*service.Coordinator, error) {
	coord := coordinatorOf(c)
	if coord.View() != domain.ViewForecast {
		return nil, fiber.NewError(fiber.StatusConflict, "Session is still on the welcome view")
	}
	return coord, nil
}

// requestContext carries the inbound request id to the outbound call
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id, ok := c.Locals(requestIDKey).(string); ok && id != "" {
		ctx = domain.WithRequestID(ctx, utils.CopyString(id))
	}
	return ctx
}

func sessionBody(coord *service.Coordinator) fiber.Map {
	ctrl := coord.Controller()
	return fiber.Map{
		"view":  coord.View(),
		"input": ctrl.Input(),
		"state": ctrl.State(),
	}
}
