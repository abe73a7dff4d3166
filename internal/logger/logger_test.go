package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewCore_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := zap.New(newCore("warn", "json", zapcore.AddSync(&buf)))

	log.Info("dropped")
	log.Warn("kept", zap.String("route", "/predict"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/predict", entry["route"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewCore_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := zap.New(newCore("loud", "console", zapcore.AddSync(&buf)))

	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New("debug", "json"))
}
