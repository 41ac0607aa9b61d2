package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Debug().Msg("hidden")
	logger.Info().Str("appointment_id", "a1").Msg("confirmed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "confirmed", entry["message"])
	assert.Equal(t, "a1", entry["appointment_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_BadLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "loud", "json")

	logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "console")
	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}
