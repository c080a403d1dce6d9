package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus/client/internal/domain"
	"github.com/nimbus/client/internal/service"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	inputPos   int
	selectPos  int
	confirmPos int
	inputErr   error
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

type recordingPredictor struct {
	mu      sync.Mutex
	reqs    []domain.PredictionRequest
	payload domain.PredictionPayload
	err     error
}

func (p *recordingPredictor) Predict(_ context.Context, req domain.PredictionRequest) (domain.PredictionPayload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqs = append(p.reqs, req)
	return p.payload, p.err
}

func (p *recordingPredictor) requests() []domain.PredictionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PredictionRequest(nil), p.reqs...)
}

func floatPtr(v float64) *float64 { return &v }

func newCoordinator(p service.Predictor) *service.Coordinator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	defaults := domain.FormInput{Location: "Mumbai", Activity: domain.ActivityRun}
	return service.NewCoordinator(service.NewForecastController(p, defaults, logger))
}

func TestRun_DeclineWelcome(t *testing.T) {
	predictor := &recordingPredictor{}
	coord := newCoordinator(predictor)
	var out bytes.Buffer

	err := NewClient(&stubDriver{confirm: []bool{false}}, coord, &out, time.UTC).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ViewWelcome, coord.View())
	assert.Contains(t, out.String(), "NIMBUS")
	assert.Empty(t, predictor.requests())
}

func TestRun_Forecast(t *testing.T) {
	predictor := &recordingPredictor{payload: domain.PredictionPayload{
		IntensityTag:     "Moderate",
		ImpactIndex:      "Low",
		MLPredictionText: "72%",
		ForecastAmountMM: floatPtr(3.5),
		ForecastTemp:     floatPtr(28.4),
	}}
	coord := newCoordinator(predictor)
	driver := &stubDriver{
		confirm:   []bool{true, false},
		inputs:    []string{"Pune"},
		selectIdx: []int{2},
	}
	var out bytes.Buffer

	require.NoError(t, NewClient(driver, coord, &out, time.UTC).Run(context.Background()))

	assert.Equal(t, domain.ViewForecast, coord.View())
	assert.Equal(t, []domain.PredictionRequest{{City: "Pune", Activity: domain.ActivityPicnic}}, predictor.requests())
	text := out.String()
	assert.Contains(t, text, "Analyzing...")
	for _, want := range []string{"Moderate", "Low", "72%", "3.50 mm", "28.4°C"} {
		assert.Contains(t, text, want)
	}
}

func TestRun_ValidationAsksAgain(t *testing.T) {
	predictor := &recordingPredictor{err: domain.NewServerError(404, "City not found")}
	coord := newCoordinator(predictor)
	coord.Enter()
	driver := &stubDriver{
		confirm:   []bool{false},
		inputs:    []string{"   ", "Atlantis"},
		selectIdx: []int{0, 0},
	}
	var out bytes.Buffer

	require.NoError(t, NewClient(driver, coord, &out, time.UTC).Run(context.Background()))

	assert.Equal(t, []domain.PredictionRequest{{City: "Atlantis", Activity: domain.ActivityRun}}, predictor.requests())
	text := out.String()
	assert.Contains(t, text, "! Please enter a location.")
	assert.Contains(t, text, "! City not found")
	assert.NotContains(t, text, "NIMBUS", "welcome is skipped once entered")
}

func TestRun_AnotherForecast(t *testing.T) {
	predictor := &recordingPredictor{err: errors.New("connection refused")}
	coord := newCoordinator(predictor)
	driver := &stubDriver{
		confirm:   []bool{true, true, false},
		inputs:    []string{"Delhi", "Kolkata"},
		selectIdx: []int{1, 3},
	}
	var out bytes.Buffer

	require.NoError(t, NewClient(driver, coord, &out, time.UTC).Run(context.Background()))

	assert.Equal(t, []domain.PredictionRequest{
		{City: "Delhi", Activity: domain.ActivityHangLaundry},
		{City: "Kolkata", Activity: domain.ActivityBikeCommute},
	}, predictor.requests())
	assert.Contains(t, out.String(), "! "+domain.FallbackMessage)
	assert.Equal(t, uint64(2), coord.Controller().State().RequestID)
}

func TestRun_Aborted(t *testing.T) {
	coord := newCoordinator(&recordingPredictor{})
	driver := &stubDriver{confirm: []bool{true}, inputErr: ErrAborted}

	err := NewClient(driver, coord, io.Discard, nil).Run(context.Background())

	assert.ErrorIs(t, err, ErrAborted)
}

func TestIndexOf(t *testing.T) {
	options := activityLabels()
	assert.Equal(t, 2, indexOf(options, "Plan a picnic"))
	assert.Equal(t, -1, indexOf(options, "Go swimming"))
	assert.Equal(t, 3, activityIndex(domain.ActivityBikeCommute))
	assert.Equal(t, 0, activityIndex("surf"))
}
