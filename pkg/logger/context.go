package logger

import (
	"context"
	"log/slog"
	"os"
)

type contextKey struct{}

// FromContext returns the logger attached to ctx, or the global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return root
}

// NewContext attaches l to ctx.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, l)
}

// WithContext attaches the context logger extended with args to ctx.
func WithContext(ctx context.Context, args ...any) context.Context {
	return NewContext(ctx, FromContext(ctx).With(args...))
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelDebug, msg, args)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelInfo, msg, args)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelWarn, msg, args)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelError, msg, args)
}

// PanicContext logs at [LevelPanic] with the context logger and panics with msg.
func PanicContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), LevelPanic, msg, args)
	panic(msg)
}

// FatalContext logs at [LevelFatal] with the context logger and exits with status 1.
func FatalContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), LevelFatal, msg, args)
	os.Exit(1)
}
