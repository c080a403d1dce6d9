// Package config loads the client configuration from the environment.
//
// Values are resolved as: OS environment, then a .env file in the working
// directory. Struct tags carry the defaults; the populated struct is
// validated before use and any problem is returned as a *ConfigError.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the top-level configuration
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production test"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server   ServerConfig
	Predict  PredictConfig
	Display  DisplayConfig
	Defaults FormDefaults
}

// ServerConfig holds the web client's listener settings
type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"40s"`
	// SubmitWait bounds how long a form post waits for settlement before
	// the pending page is shown instead
	SubmitWait time.Duration `envconfig:"SUBMIT_WAIT" default:"20s"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m" validate:"gt=0"`
}

// PredictConfig points at the external prediction backend
type PredictConfig struct {
	URL       string        `envconfig:"PREDICT_API_URL" default:"http://127.0.0.1:5000/predict" validate:"required,url"`
	Timeout   time.Duration `envconfig:"PREDICT_TIMEOUT" default:"30s" validate:"gt=0"`
	UserAgent string        `envconfig:"PREDICT_USER_AGENT" default:"Nimbus-Client/1.0"`
}

// DisplayConfig selects presentation options
type DisplayConfig struct {
	Theme    string `envconfig:"THEME" default:"nimbus" validate:"oneof=nimbus daylight"`
	TimeZone string `envconfig:"DISPLAY_TZ" default:"UTC" validate:"timezone"`
}

// FormDefaults seeds a fresh forecast form
type FormDefaults struct {
	City     string `envconfig:"DEFAULT_CITY" default:"Mumbai"`
	Activity string `envconfig:"DEFAULT_ACTIVITY" default:"run" validate:"oneof=run hang_laundry picnic bike_commute"`
}

// ErrorType categorizes configuration failures
type ErrorType string

const (
	ErrParsing    ErrorType = "parsing"
	ErrValidation ErrorType = "validation"
)

// ConfigError is returned by Load
type ConfigError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads .env (if present) and the environment into a validated Config
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}

// Location resolves DisplayConfig.TimeZone
func (d DisplayConfig) Location() *time.Location {
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
