package dedup

import (
	"context"

	"reposter/internal/pipeline"
)

// Group is one fingerprint seen more than once.
type Group[T any] struct {
	Key        string `json:"key"`
	Original   T      `json:"original"`
	Duplicates []T    `json:"duplicates"`
}

// Collector groups every item it receives by fingerprint and emits nothing.
type Collector[T any] struct {
	*pipeline.Func[T, struct{}]
	fingerprint func(T) string
	order       []string
	seen        map[string][]T
}

// CollectDuplicates returns a collector keyed by fingerprint.
func CollectDuplicates[T any](fingerprint func(T) string) *Collector[T] {
	c := &Collector[T]{
		fingerprint: fingerprint,
		seen:        make(map[string][]T),
	}
	c.Func = pipeline.New("CollectDuplicates", func(_ context.Context, in T, _ pipeline.Sink[struct{}]) error {
		key := c.fingerprint(in)
		existing, ok := c.seen[key]
		if !ok {
			c.order = append(c.order, key)
		}
		c.seen[key] = append(existing, in)
		return nil
	})
	return c
}

// Duplicates returns one group per fingerprint seen more than once, ordered
// by the first time each fingerprint appeared.
func (c *Collector[T]) Duplicates() []Group[T] {
	var groups []Group[T]
	for _, key := range c.order {
		items := c.seen[key]
		if len(items) < 2 {
			continue
		}
		duplicates := make([]T, len(items)-1)
		copy(duplicates, items[1:])
		groups = append(groups, Group[T]{
			Key:        key,
			Original:   items[0],
			Duplicates: duplicates,
		})
	}
	return groups
}

// Seen returns the number of distinct fingerprints collected.
func (c *Collector[T]) Seen() int { return len(c.order) }
