package stages

import (
	"context"

	"reposter/internal/pipeline"
)

// Filter forwards an item when keep reports true.
func Filter[T any](keep func(T) bool) *pipeline.Func[T, T] {
	return pipeline.New("FilterStage", func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		if !keep(in) {
			return nil
		}
		return emit.One(ctx, in)
	})
}

// AsyncFilter is Filter for predicates that block on I/O or can fail.
// A predicate error is recorded as a failure of the item.
func AsyncFilter[T any](keep func(context.Context, T) (bool, error)) *pipeline.Func[T, T] {
	return pipeline.New("AsyncFilterStage", func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		ok, err := keep(ctx, in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return emit.One(ctx, in)
	})
}
