package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false, "")

	slog.Debug("hidden")
	slog.Info("goal created", "goal_id", "g1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "goal created", entry["msg"])
	assert.Equal(t, "g1", entry["goal_id"])
}

func TestInitWriterDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, true, "")

	slog.Debug("subscription opened", "topic", "goals")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "topic=goals")
}
