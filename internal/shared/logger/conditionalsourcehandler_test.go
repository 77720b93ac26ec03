package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info skipped by default levels", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn annotated", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error annotated", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"info annotated in debug mode", slog.LevelInfo, []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}, true},
		{"no levels configured", slog.LevelError, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewConditionalSourceHandler(base, tt.levels...))

			l.Log(t.Context(), tt.level, "ticket event")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(NewConditionalSourceHandler(base, slog.LevelWarn)).
		With("ticket_id", 42).
		WithGroup("reply")

	l.Warn("conflict", "attempt", 2)

	out := buf.String()
	assert.Contains(t, out, "ticket_id=42")
	assert.Contains(t, out, "reply.attempt=2")
	assert.Contains(t, out, "source=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
