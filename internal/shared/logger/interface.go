package logger

import "log/slog"

// Interface is the structured logger handed to use cases, repositories and
// handlers. The *w methods take alternating key/value pairs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type slogAdapter struct {
	l *slog.Logger
}

// NewLogger wraps the process logger.
func NewLogger() Interface {
	return &slogAdapter{l: Get()}
}

// NewLoggerWithSlog wraps an explicit slog logger, mainly for tests.
func NewLoggerWithSlog(l *slog.Logger) Interface {
	return &slogAdapter{l: l}
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

func (a *slogAdapter) With(args ...any) Interface {
	return &slogAdapter{l: a.l.With(args...)}
}

func (a *slogAdapter) Named(name string) Interface {
	return &slogAdapter{l: a.l.With("logger", name)}
}

func (a *slogAdapter) Debugw(msg string, keysAndValues ...any) { a.l.Debug(msg, keysAndValues...) }
func (a *slogAdapter) Infow(msg string, keysAndValues ...any)  { a.l.Info(msg, keysAndValues...) }
func (a *slogAdapter) Warnw(msg string, keysAndValues ...any)  { a.l.Warn(msg, keysAndValues...) }
func (a *slogAdapter) Errorw(msg string, keysAndValues ...any) { a.l.Error(msg, keysAndValues...) }
