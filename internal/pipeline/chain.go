package pipeline

import (
	"context"
	"log/slog"
)

type chained[In, Mid, Out any] struct {
	prev Stage[In, Mid]
	next Stage[Mid, Out]
}

// Chain returns a stage that feeds everything prev emits straight into next.
// Errors are read from both sides on every call, upstream first.
func Chain[In, Mid, Out any](prev Stage[In, Mid], next Stage[Mid, Out]) Stage[In, Out] {
	return &chained[In, Mid, Out]{prev: prev, next: next}
}

func (c *chained[In, Mid, Out]) Name() string {
	return c.prev.Name() + " -> " + c.next.Name()
}

func (c *chained[In, Mid, Out]) Process(ctx context.Context, inputs []In, sink Sink[Out]) error {
	return c.prev.Process(ctx, inputs, func(ctx context.Context, middle []Mid) error {
		return c.next.Process(ctx, middle, sink)
	})
}

func (c *chained[In, Mid, Out]) Errors() []StageError {
	prev := c.prev.Errors()
	next := c.next.Errors()
	out := make([]StageError, 0, len(prev)+len(next))
	out = append(out, prev...)
	return append(out, next...)
}

func (c *chained[In, Mid, Out]) SetStopOnError(stop bool) {
	c.prev.SetStopOnError(stop)
	c.next.SetStopOnError(stop)
}

func (c *chained[In, Mid, Out]) SetLogger(logger *slog.Logger) {
	if aware, ok := c.prev.(LoggerAware); ok {
		aware.SetLogger(logger)
	}
	if aware, ok := c.next.(LoggerAware); ok {
		aware.SetLogger(logger)
	}
}
