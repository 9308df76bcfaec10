package dedup

import (
	"context"
	"fmt"
	"strings"

	"reposter/internal/kvstore"
	"reposter/internal/pipeline"
	"reposter/internal/services"
)

// Action selects which side of the duplicate classification Filter keeps.
type Action string

const (
	// Drop forwards only items with no Record.
	Drop Action = "drop"
	// Keep forwards only items with a Record.
	Keep Action = "keep"
)

// ParseAction accepts "drop" or "keep" in any case.
func ParseAction(value string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(value))) {
	case Drop:
		return Drop, nil
	case Keep:
		return Keep, nil
	default:
		return "", services.Wrap(services.ErrValidation, "dedup", "parse action",
			fmt.Sprintf("unknown action %q (want drop or keep)", value), nil)
	}
}

// Filter looks up each item's Record on axis and forwards it according to
// action. Lookup failures are item failures.
func Filter[T any](store kvstore.Store, partition, axis string, action Action, identity Identity[T]) *pipeline.Func[T, T] {
	return pipeline.New("FilterDuplicatedPosts", func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		_, found, err := Lookup(ctx, store, partition, axis, identity.ID(in))
		if err != nil {
			return err
		}
		switch action {
		case Drop:
			if found {
				return nil
			}
		case Keep:
			if !found {
				return nil
			}
		default:
			return services.Wrap(services.ErrValidation, "FilterDuplicatedPosts", "filter",
				fmt.Sprintf("unknown action %q", action), nil)
		}
		return emit.One(ctx, in)
	})
}

// ForgetStage deletes each item's Record on axis and forwards the item.
func ForgetStage[T any](store kvstore.Store, partition, axis string, identity Identity[T]) *pipeline.Func[T, T] {
	return pipeline.New("ForgetDuplicate", func(ctx context.Context, in T, emit pipeline.Sink[T]) error {
		if err := Forget(ctx, store, partition, axis, identity.ID(in)); err != nil {
			return err
		}
		return emit.One(ctx, in)
	})
}
