package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"reposter/internal/pipeline"
)

// Tap runs fn for its side effect and forwards the item when fn succeeds.
func Tap[T any](name string, fn func(context.Context, T) error) *pipeline.Func[T, T] {
	return pipeline.New(name, func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		if err := fn(ctx, in); err != nil {
			return err
		}
		return emit.One(ctx, in)
	})
}

// Echo writes each item to w as indented JSON.
func Echo[T any](w io.Writer) *pipeline.Func[T, T] {
	if w == nil {
		w = os.Stdout
	}
	return Tap("EchoJson", func(_ context.Context, in T) error {
		data, err := json.MarshalIndent(in, "", "  ")
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	})
}

// Stderr writes message(item) to w, or to os.Stderr when w is nil. No
// newline is added.
func Stderr[T any](message func(T) string, w io.Writer) *pipeline.Func[T, T] {
	if w == nil {
		w = os.Stderr
	}
	return Tap("StderrWriteEachItem", func(_ context.Context, in T) error {
		_, err := io.WriteString(w, message(in))
		return err
	})
}
