package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:5000/predict", cfg.Predict.URL)
	assert.Equal(t, 30*time.Second, cfg.Predict.Timeout)
	assert.Equal(t, "Mumbai", cfg.Defaults.City)
	assert.Equal(t, "run", cfg.Defaults.Activity)
	assert.Equal(t, "nimbus", cfg.Display.Theme)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PREDICT_API_URL", "https://predict.example.com/predict")
	t.Setenv("SUBMIT_WAIT", "3s")
	t.Setenv("DEFAULT_ACTIVITY", "picnic")
	t.Setenv("THEME", "daylight")
	t.Setenv("DISPLAY_TZ", "Asia/Kolkata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://predict.example.com/predict", cfg.Predict.URL)
	assert.Equal(t, 3*time.Second, cfg.Server.SubmitWait)
	assert.Equal(t, "picnic", cfg.Defaults.Activity)
	assert.Equal(t, "daylight", cfg.Display.Theme)
	assert.Equal(t, "Asia/Kolkata", cfg.Display.Location().String())
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad url", "PREDICT_API_URL", "not a url"},
		{"unknown activity", "DEFAULT_ACTIVITY", "swim"},
		{"unknown theme", "THEME", "neon"},
		{"unknown log level", "LOG_LEVEL", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, ErrValidation, cerr.Type)
		})
	}
}

func TestLoad_ParsingError(t *testing.T) {
	t.Setenv("PREDICT_TIMEOUT", "soon")

	_, err := Load()
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ErrParsing, cerr.Type)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
