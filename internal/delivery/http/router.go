package http

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// AppConfig holds the fiber settings of the web client
type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessLog receives one line per request; nil disables access logging
	AccessLog io.Writer
}

// NewApp builds the fiber app with middleware and all routes
func NewApp(cfg AppConfig, handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: ErrorHandler,
		// Sessions outlive requests and hold on to submitted values.
		Immutable: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${method} ${path} (${latency}) ${locals:requestid}\n",
			Output: cfg.AccessLog,
		}))
	}

	SetupRoutes(app, handler)
	return app
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// Browser client
	app.Get("/", handler.Session, handler.Index)
	app.Post(enterPath, handler.Session, handler.Enter)
	app.Post(forecastPath, handler.Session, handler.SubmitForm)

	// API v1 routes
	api := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}), handler.Session)
	{
		api.Get("/session", handler.GetSession)
		api.Post("/enter", handler.APIEnter)
		api.Patch("/input", handler.UpdateInput)
		api.Post("/submit", handler.Submit)
	}
}

// ErrorHandler answers every handler error as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
