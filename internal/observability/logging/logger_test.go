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
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNew_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, "json", "info").Info("hello", slog.String("lang", "hi"))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "hi", entry["lang"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, "text", "info").Info("hello", slog.String("lang", "hi"))

		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "lang=hi")
	})

	t.Run("debug filtered at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "json", "info")
		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestRequestID_RoundTrip(t *testing.T) {
	id := NewRequestID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	ctx := ContextWithRequestID(context.Background(), id)
	assert.Equal(t, id, RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := ContextWithRequestID(context.Background(), "req-123")
	WithRequestID(ctx, base).Info("processing")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestWithRequestID_Empty(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logger := WithRequestID(context.Background(), base)
	logger.Info("no id")

	assert.Same(t, base, logger)
	assert.NotContains(t, buf.String(), "request_id")
}

func BenchmarkLogger_WithRequestID(b *testing.B) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ContextWithRequestID(context.Background(), "benchmark-req-id")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		WithRequestID(ctx, base).Info("benchmark message")
	}
}
