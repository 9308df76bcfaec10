package stages

import (
	"context"
	"fmt"

	"reposter/internal/pipeline"
)

// Limit forwards only the first n items it has ever seen.
type Limit[T any] struct {
	*pipeline.Func[T, T]
	allowed int
	seen    int
}

// LimitByCount returns a stage that silently drops everything after the
// first n items. The counter spans every Process call on the instance.
func LimitByCount[T any](n int) *Limit[T] {
	l := &Limit[T]{allowed: n}
	l.Func = pipeline.New(fmt.Sprintf("LimitByCount(%d)", n), func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		l.seen++
		if l.seen > l.allowed {
			return nil
		}
		return emit.One(ctx, in)
	})
	return l
}

// Seen reports how many items reached the stage, including dropped ones.
func (l *Limit[T]) Seen() int { return l.seen }
