package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// expandErrors adds the verbose form and the stack trace of the first logged error.
func expandErrors(next func(context.Context, slog.Record) error) func(context.Context, slog.Record) error {
	return func(ctx context.Context, rec slog.Record) error {
		var err error
		rec.Attrs(func(attr slog.Attr) bool {
			if attr.Key == slogx.ErrorKey || attr.Key == "err" {
				err, _ = attr.Value.Any().(error)
			}
			return err == nil
		})
		if err != nil {
			rec = rec.Clone()
			rec.AddAttrs(slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
			if st, ok := err.(errbase.StackTraceProvider); ok {
				rec.AddAttrs(slog.Any(ErrorStackTraceKey, frames(st.StackTrace())))
			}
		}
		return next(ctx, rec)
	}
}

// frames formats a stack trace as "function file:line", dropping the runtime frames at its bottom.
func frames(st errbase.StackTrace) []string {
	pcs := make([]uintptr, len(st))
	for i, f := range st {
		pcs[i] = uintptr(f)
	}
	var lines []string
	it := runtime.CallersFrames(pcs)
	for {
		frame, more := it.Next()
		lines = append(lines, fmt.Sprintf("%s %s:%d", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	for len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "runtime.") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
