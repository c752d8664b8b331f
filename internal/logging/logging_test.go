package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/eldlog/internal/config"
)

func TestNewJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "info", Format: config.LogFormatJSON}, "cli", &buf)
	require.NoError(t, err)
	assert.Nil(t, closer)

	logger.Info().Str("status", "driving").Msg("duty status changed")
	logger.Debug().Msg("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "cli", line["component"])
	assert.Equal(t, "driving", line["status"])
	assert.Equal(t, "info", line["level"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(config.LogConfig{Level: "debug", Format: config.LogFormatConsole}, "ui", &buf)
	require.NoError(t, err)

	logger.Debug().Msg("reload")
	assert.Contains(t, buf.String(), "reload")
	assert.Contains(t, buf.String(), "component=")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eldlog.log")
	logger, closer, err := New(config.LogConfig{Level: "warn", Format: config.LogFormatJSON, File: path}, "cli", nil)
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Warn().Msg("late entry")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "late entry")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "chatty"}, "cli", nil)
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(config.LogConfig{Level: "info", Format: config.LogFormatJSON}, "test", &buf)
	require.NoError(t, err)

	ctx := Attach(context.Background(), logger)
	From(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	assert.Equal(t, zerolog.Disabled, From(context.Background()).GetLevel())
}
