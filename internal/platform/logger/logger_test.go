package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtonyos/go-todo/internal/config"
	"github.com/realtonyos/go-todo/internal/platform/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  slog.Level
		valid bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"chatty", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := logger.ParseLevel(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestNewProductionWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, config.ServerConfig{LogLevel: "info", Environment: "production"})

	l.Debug("hidden")
	l.Info("visible", "user_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug entries must be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNewDevelopmentWritesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, config.ServerConfig{LogLevel: "debug", Environment: "development"})
	l.Debug("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=v")
}

func TestNewInvalidLevelWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger.New(&buf, config.ServerConfig{LogLevel: "loud", Environment: "production"})

	assert.Contains(t, buf.String(), "invalid log level configured")
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))

	logger.FromContext(ctx).Info("from context", "trace_id", "abc")
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}
