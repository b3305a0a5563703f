package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/realestate-cashflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected slog.Level
	}{
		{"Debug", "debug", slog.LevelDebug},
		{"UpperCaseInfo", "INFO", slog.LevelInfo},
		{"Warn", "warn", slog.LevelWarn},
		{"WarningAlias", "warning", slog.LevelWarn},
		{"Error", " error ", slog.LevelError},
		{"UnknownToInfo", "verbose", slog.LevelInfo},
		{"EmptyToInfo", "", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.raw))
		})
	}
}

func TestNewLogger_LevelsAndAttributes(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		Application: config.ApplicationConfig{Name: "cashflow-test", Env: "test"},
		Logging:     config.LoggingConfig{Level: "warn"},
	}

	logger := newLogger(&buf, cfg)
	require.NotNil(t, logger)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	buf.Reset()
	logger.Warn("close generated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "close generated", entry["msg"])
	assert.Equal(t, "cashflow-test", entry["app"])
	assert.Equal(t, "test", entry["env"])
	_, hasSource := entry["source"]
	assert.False(t, hasSource, "source is only added at debug level")
}

func TestNewLogger_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{Logging: config.LoggingConfig{Level: "debug"}})

	buf.Reset()
	logger.Debug("lookup resolved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry, "source")
	assert.NotContains(t, entry, "app")
}
