package stages

import (
	"context"
	"fmt"
	"time"

	"reposter/internal/pipeline"
)

// Delay waits d before forwarding each item. A cancelled context ends the
// wait early and fails the item with the context error.
func Delay[T any](d time.Duration) *pipeline.Func[T, T] {
	return pipeline.New(fmt.Sprintf("DelayStage(%d ms)", d.Milliseconds()), func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		if d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		return emit.One(ctx, in)
	})
}
