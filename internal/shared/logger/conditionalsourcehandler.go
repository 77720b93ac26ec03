package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceHandler attaches the caller location only to records whose level is
// in levels. The wrapped handler must not set AddSource itself.
type sourceHandler struct {
	next   slog.Handler
	levels map[slog.Level]struct{}
}

// NewConditionalSourceHandler wraps handler so that records at one of the
// given levels carry a source attribute.
func NewConditionalSourceHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	set := make(map[slog.Level]struct{}, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return &sourceHandler{next: handler, levels: set}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if _, ok := h.levels[r.Level]; ok {
		src := recordSource(r)
		if src == nil {
			src = callerSource(4)
		}
		r.AddAttrs(slog.Any(slog.SourceKey, src))
	}
	return h.next.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{next: h.next.WithAttrs(attrs), levels: h.levels}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{next: h.next.WithGroup(name), levels: h.levels}
}

// recordSource resolves the program counter captured by slog.
func recordSource(r slog.Record) *slog.Source {
	if r.PC == 0 {
		return nil
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return nil
	}
	return &slog.Source{Function: frame.Function, File: frame.File, Line: frame.Line}
}

func callerSource(skip int) *slog.Source {
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	return &slog.Source{Function: frame.Function, File: frame.File, Line: frame.Line}
}
