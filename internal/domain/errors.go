package domain

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown for every failure that carries no server text
const FallbackMessage = "Error: Could not get prediction."

// FailureKind classifies why a forecast request did not succeed
type FailureKind string

const (
	// FailureValidation means the form input was rejected before sending
	FailureValidation FailureKind = "validation"
	// FailureTransport covers network errors, timeouts, unreadable bodies,
	// non-2xx responses without an error field and an open circuit
	FailureTransport FailureKind = "transport"
	// FailureServerReported means the backend named the cause in its body
	FailureServerReported FailureKind = "server_reported"
)

// ErrUnknownField is returned by UpdateField for names the form does not have
var ErrUnknownField = errors.New("unknown form field")

// PredictionError describes a failed forecast request
type PredictionError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *PredictionError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s (status %d): %s: %v", e.Kind, e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause
func (e *PredictionError) Unwrap() error {
	return e.Err
}

// NewValidationError reports rejected form input
func NewValidationError(message string, err error) *PredictionError {
	return &PredictionError{Kind: FailureValidation, Message: message, Err: err}
}

// NewTransportError reports a failure with no usable server explanation
func NewTransportError(statusCode int, message string, err error) *PredictionError {
	return &PredictionError{Kind: FailureTransport, StatusCode: statusCode, Message: message, Err: err}
}

// NewServerError reports a failure explained by the backend's error field
func NewServerError(statusCode int, message string) *PredictionError {
	return &PredictionError{Kind: FailureServerReported, StatusCode: statusCode, Message: message}
}

// FailureMessage picks the text displayed for err. Only server-reported
// failures keep their own wording.
func FailureMessage(err error) string {
	var perr *PredictionError
	if errors.As(err, &perr) && perr.Kind == FailureServerReported && perr.Message != "" {
		return perr.Message
	}
	return FallbackMessage
}
