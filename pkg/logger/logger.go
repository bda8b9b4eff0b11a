// nolint: sloglint
package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Custom levels above slog.LevelError.
const (
	LevelPanic = slog.Level(12)
	LevelFatal = slog.Level(16)
)

// Keys for log attributes.
const (
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

var (
	level = new(slog.LevelVar)

	// root is replaced by [Init]. Before that, everything goes to stderr as text.
	root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}))
)

func init() {
	level.Set(slog.LevelDebug)
	slog.SetDefault(root)
}

// Config is the logger configuration.
type Config struct {
	// Output is the log format, "text" (default) or "json".
	// JSON output renders durations as milliseconds and wei amounts as decimal strings.
	Output string `mapstructure:"output"`

	// Debug lowers the level to debug and attaches source locations and error stack traces.
	Debug bool `mapstructure:"debug"`
}

// Init replaces the global logger according to the given configuration.
func Init(cfg Config) error {
	opts := &slog.HandlerOptions{Level: level}
	replacers := []attrReplacer{replaceLevel}

	var stages []stage
	level.Set(slog.LevelInfo)
	if cfg.Debug {
		level.Set(slog.LevelDebug)
		opts.AddSource = true
		stages = append(stages, expandErrors)
	}

	var handler slog.Handler
	switch output := strings.ToLower(cfg.Output); output {
	case "json":
		opts.ReplaceAttr = chainReplacers(append(replacers, replaceDuration, replaceBigInt)...)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "", "text":
		opts.ReplaceAttr = chainReplacers(replacers...)
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		return errors.Newf("unknown logger output %q", output)
	}

	root = slog.New(newPipeline(handler, stages...))
	slog.SetDefault(root)
	return nil
}

// With returns the global logger with the given attributes.
func With(args ...any) *slog.Logger { return root.With(args...) }

// WithGroup returns the global logger with a group opened.
func WithGroup(group string) *slog.Logger { return root.WithGroup(group) }

func Debug(msg string, args ...any) { emit(context.Background(), root, slog.LevelDebug, msg, args) }
func Info(msg string, args ...any) { emit(context.Background(), root, slog.LevelInfo, msg, args) }
func Warn(msg string, args ...any) { emit(context.Background(), root, slog.LevelWarn, msg, args) }
func Error(msg string, args ...any) { emit(context.Background(), root, slog.LevelError, msg, args) }

// Panic logs at [LevelPanic] and panics with msg.
func Panic(msg string, args ...any) {
	emit(context.Background(), root, LevelPanic, msg, args)
	panic(msg)
}

// Fatal logs at [LevelFatal] and exits the process with status 1.
func Fatal(msg string, args ...any) {
	emit(context.Background(), root, LevelFatal, msg, args)
	os.Exit(1)
}

// LogAttrs logs attrs at the given level with the logger carried by ctx.
func LogAttrs(ctx context.Context, lvl slog.Level, msg string, attrs ...slog.Attr) {
	l := FromContext(ctx)
	if !l.Enabled(ctx, lvl) {
		return
	}
	r := slog.NewRecord(time.Now(), lvl, msg, callerPC(3))
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// emit must be called directly from an exported function so that the
// reported source points at the caller of that function.
func emit(ctx context.Context, l *slog.Logger, lvl slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, lvl) {
		return
	}
	r := slog.NewRecord(time.Now(), lvl, msg, callerPC(4))
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// callerPC skips runtime.Callers and callerPC itself at depths 0 and 1.
func callerPC(depth int) uintptr {
	var pcs [1]uintptr
	runtime.Callers(depth, pcs[:])
	return pcs[0]
}
