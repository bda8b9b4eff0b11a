package logger

import (
	"context"
	"log/slog"
)

// stage rewrites a record before it reaches the next handler in a pipeline.
type stage func(next func(context.Context, slog.Record) error) func(context.Context, slog.Record) error

// pipeline runs every record through its stages, in order, before the wrapped handler.
type pipeline struct {
	slog.Handler
	stages []stage
}

func newPipeline(h slog.Handler, stages ...stage) slog.Handler {
	if len(stages) == 0 {
		return h
	}
	return &pipeline{Handler: h, stages: stages}
}

func (p *pipeline) Handle(ctx context.Context, rec slog.Record) error {
	handle := p.Handler.Handle
	for i := len(p.stages) - 1; i >= 0; i-- {
		handle = p.stages[i](handle)
	}
	return handle(ctx, rec)
}

func (p *pipeline) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &pipeline{Handler: p.Handler.WithAttrs(attrs), stages: p.stages}
}

func (p *pipeline) WithGroup(name string) slog.Handler {
	return &pipeline{Handler: p.Handler.WithGroup(name), stages: p.stages}
}
