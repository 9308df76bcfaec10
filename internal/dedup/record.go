package dedup

import (
	"context"
	"fmt"
	"strings"

	"reposter/internal/kvstore"
	"reposter/internal/services"
)

// Record marks one item as a known duplicate. It points at the storage key of
// the group's original and at every duplicate in that group, the item itself
// included.
type Record struct {
	Original   kvstore.Key   `json:"original"`
	Duplicates []kvstore.Key `json:"duplicates"`
}

// Identity tells the record layer how to address items of type T.
type Identity[T any] struct {
	// ID is the stable identifier used in the record key.
	ID func(T) string
	// StorageKey locates the item itself in the store.
	StorageKey func(partition string, item T) kvstore.Key
}

// RecordKey is where the Record for item id on axis is kept.
func RecordKey(partition, axis, id string) kvstore.Key {
	return kvstore.Key{partition, "duplicate", axis, id}
}

func validateAxis(partition, axis string) error {
	if strings.TrimSpace(partition) == "" {
		return services.Wrap(services.ErrValidation, "dedup", "record key", "partition is empty", nil)
	}
	if strings.TrimSpace(axis) == "" {
		return services.Wrap(services.ErrValidation, "dedup", "record key", "axis is empty", nil)
	}
	return nil
}

// RecordDuplicates writes a Record for every duplicate member of every group
// and returns how many were written. Writes are independent; a failure stops
// at the failing record and leaves earlier ones in place.
func RecordDuplicates[T any](ctx context.Context, store kvstore.Store, partition, axis string, groups []Group[T], identity Identity[T]) (int, error) {
	if err := validateAxis(partition, axis); err != nil {
		return 0, err
	}

	written := 0
	for _, group := range groups {
		record := Record{
			Original:   identity.StorageKey(partition, group.Original),
			Duplicates: make([]kvstore.Key, 0, len(group.Duplicates)),
		}
		for _, dup := range group.Duplicates {
			record.Duplicates = append(record.Duplicates, identity.StorageKey(partition, dup))
		}
		for _, dup := range group.Duplicates {
			key := RecordKey(partition, axis, identity.ID(dup))
			if err := store.Set(ctx, key, record); err != nil {
				return written, fmt.Errorf("record duplicate %s: %w", key, err)
			}
			written++
		}
	}
	return written, nil
}

// Lookup returns the Record for id, if any.
func Lookup(ctx context.Context, store kvstore.Store, partition, axis, id string) (Record, bool, error) {
	if err := validateAxis(partition, axis); err != nil {
		return Record{}, false, err
	}
	var record Record
	found, err := store.Get(ctx, RecordKey(partition, axis, id), &record)
	if err != nil {
		return Record{}, false, fmt.Errorf("lookup duplicate %s: %w", id, err)
	}
	return record, found, nil
}

// Forget deletes the Record for id so the item can be classified again.
func Forget(ctx context.Context, store kvstore.Store, partition, axis, id string) error {
	if err := validateAxis(partition, axis); err != nil {
		return err
	}
	if err := store.Delete(ctx, RecordKey(partition, axis, id)); err != nil {
		return fmt.Errorf("forget duplicate %s: %w", id, err)
	}
	return nil
}
