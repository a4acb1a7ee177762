package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/apa7/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(model.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	ctx := WithRunID(context.Background())
	logger.InfoContext(ctx, "formatted document", "paragraphs", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "formatted document", entry["msg"])
	assert.Equal(t, float64(3), entry["paragraphs"])

	id, ok := entry["run_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, RunID(ctx), id)
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(model.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("hidden")
	logger.With("component", "format").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "component=format")
	assert.NotContains(t, out, "run_id")
}

func TestRunID_Missing(t *testing.T) {
	assert.Empty(t, RunID(context.Background()))
	assert.NotEqual(t, RunID(WithRunID(context.Background())), RunID(WithRunID(context.Background())))
}

func TestForRun(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithRunID(context.Background())
	logger := ForRun(ctx, New(model.LoggingConfig{Level: "info", Format: "json"}, &buf))

	logger.Info("no context")
	logger.InfoContext(ctx, "with context")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 1, bytes.Count(line, []byte(`"run_id"`)), string(line))
		assert.Contains(t, string(line), RunID(ctx))
	}

	plain := New(model.LoggingConfig{}, &buf)
	assert.Same(t, plain, ForRun(context.Background(), plain))
}
