package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	Init(&Config{Level: "debug", Format: "json", Output: &buf})

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = context.WithValue(ctx, ToolKey, "contract_analyze")
	Info(ctx, "analyzed", "chars", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analyzed", entry["msg"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "contract_analyze", entry["tool"])
	assert.EqualValues(t, 42, entry["chars"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	Init(&Config{Level: "warn", Format: "text", Output: &buf})

	ctx := context.Background()
	Debug(ctx, "hidden")
	Info(ctx, "hidden too")
	assert.Empty(t, buf.String())

	Warn(ctx, "shown")
	Error(ctx, "also shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "also shown")
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))
}
