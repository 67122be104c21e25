package telemetry_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/michael-freling/agent-rules/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger("info", "json", &buf)

	logger.Info("decision", "verdict", "deny")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "decision", entry["msg"])
	assert.Equal(t, "deny", entry["verdict"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger("debug", "text", &buf)

	logger.Debug("loaded rules", "count", 3)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "count=3")
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantOut bool
	}{
		{name: "warn drops info", level: "warn"},
		{name: "unknown level defaults to warn", level: "verbose"},
		{name: "info keeps info", level: "INFO", wantOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := telemetry.NewLogger(tt.level, "json", &buf)

			logger.Info("message")

			assert.Equal(t, tt.wantOut, buf.Len() > 0)
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := telemetry.Discard()
	logger.Error("dropped")
	assert.NotNil(t, logger)
}
