package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/nimbus/client/internal/domain"
)

// maxErrorBody caps how much of a failed response is read for its error field
const maxErrorBody = 64 << 10

// PredictionClient posts forecast requests to the external prediction backend
type PredictionClient struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     *slog.Logger
}

// PredictionClientOption configures a PredictionClient
type PredictionClientOption func(*PredictionClient)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) PredictionClientOption {
	return func(p *PredictionClient) {
		p.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header on outbound requests
func WithUserAgent(ua string) PredictionClientOption {
	return func(p *PredictionClient) {
		p.userAgent = ua
	}
}

// WithBreaker shares a caller-provided circuit breaker
func WithBreaker(cb *gobreaker.CircuitBreaker[*http.Response]) PredictionClientOption {
	return func(p *PredictionClient) {
		p.breaker = cb
	}
}

// WithLogger sets the client logger
func WithLogger(l *slog.Logger) PredictionClientOption {
	return func(p *PredictionClient) {
		p.logger = l
	}
}

// NewPredictionClient creates a client for the backend at endpoint
func NewPredictionClient(endpoint string, timeout time.Duration, opts ...PredictionClientOption) *PredictionClient {
	c := &PredictionClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.breaker == nil {
		c.breaker = NewPredictBreaker("prediction-backend")
	}

	return c
}

// NewPredictBreaker builds the breaker guarding the backend. Only transport
// errors and 5xx responses without an error field count against it.
func NewPredictBreaker(name string) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
}

// BreakerState reports the circuit state for health output
func (c *PredictionClient) BreakerState() string {
	return c.breaker.State().String()
}

// Predict sends one request and returns the decoded payload. Every failure
// is a *domain.PredictionError.
func (c *PredictionClient) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionPayload, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.PredictionPayload{}, fmt.Errorf("prediction_client: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.PredictionPayload{}, fmt.Errorf("prediction_client: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	requestID := domain.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.httpClient.Do(httpReq)
		if doErr != nil {
			return nil, doErr
		}
		// A 5xx that names its cause is an answer, not an outage.
		if r.StatusCode >= 500 && !bufferErrorField(r) {
			return r, fmt.Errorf("upstream returned %d", r.StatusCode)
		}
		return r, nil
	})
	if resp == nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("prediction backend circuit open", "request_id", requestID)
			return domain.PredictionPayload{}, domain.NewTransportError(0, "circuit breaker is open", err)
		}
		c.logger.Warn("prediction request failed", "request_id", requestID, "error", err)
		return domain.PredictionPayload{}, domain.NewTransportError(0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.PredictionPayload{}, c.decodeFailure(resp, requestID)
	}

	var payload domain.PredictionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.PredictionPayload{}, domain.NewTransportError(resp.StatusCode, "failed to decode response", err)
	}

	c.logger.Debug("prediction received", "request_id", requestID, "status", resp.StatusCode, "city", req.City)
	return payload, nil
}

// decodeFailure extracts the backend's error field from a non-2xx response
func (c *PredictionClient) decodeFailure(resp *http.Response, requestID string) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return domain.NewTransportError(resp.StatusCode, "failed to read error response", err)
	}

	if msg, ok := errorField(raw); ok {
		c.logger.Info("prediction rejected by backend", "request_id", requestID, "status", resp.StatusCode, "error", msg)
		return domain.NewServerError(resp.StatusCode, msg)
	}

	c.logger.Warn("prediction backend returned error status", "request_id", requestID, "status", resp.StatusCode)
	return domain.NewTransportError(resp.StatusCode, fmt.Sprintf("backend returned %d", resp.StatusCode), nil)
}

// bufferErrorField reads a failed response body into memory, leaving it
// readable again, and reports whether it carries an error field
func bufferErrorField(r *http.Response) bool {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxErrorBody))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	_, ok := errorField(raw)
	return ok
}

// errorField returns the non-empty string error field of a failure body
func errorField(raw []byte) (string, bool) {
	var body struct {
		Error any `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return "", false
	}
	msg, ok := body.Error.(string)
	return msg, ok && msg != ""
}
