package stages

import (
	"context"
	"strconv"

	"reposter/internal/pipeline"
)

// Counter forwards items unchanged and counts them.
type Counter[T any] struct {
	*pipeline.Func[T, T]
	count int
}

func Count[T any]() *Counter[T] {
	c := &Counter[T]{}
	c.Func = pipeline.New("CountItems", func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		c.count++
		return emit.One(ctx, in)
	})
	return c
}

// Count returns the number of items seen so far.
func (c *Counter[T]) Count() int { return c.count }

func (c *Counter[T]) String() string { return strconv.Itoa(c.count) }
