package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextHandler_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{level: "trace", want: log.DebugLevel},
		{level: "debug", want: log.DebugLevel},
		{level: "info", want: log.InfoLevel},
		{level: "WARN", want: log.WarnLevel},
		{level: "error", want: log.ErrorLevel},
		{level: "bogus", want: log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			h := NewTextHandler(tt.level, &bytes.Buffer{})
			l, ok := h.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestNewTextHandler_Filters(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTextHandler("warn", &buf))
	logger.Info("hidden")
	logger.Warn("shown", "id", "Test.App")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "Test.App")
}

func TestNewJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewJSONHandler("debug", &buf)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Debug("probe", "extension", ".txt")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "probe", rec["msg"])
	assert.Equal(t, ".txt", rec["extension"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("trace"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	New("info", true, &buf).Info("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	buf.Reset()
	New("info", false, &buf).Info("hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
