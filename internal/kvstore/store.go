package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reposter/internal/config"
	"reposter/internal/services"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("kvstore: store is closed")

// Key addresses one record. Segments are compared exactly; a Key is never
// split or rejoined on separators.
type Key []string

// String renders the key as a JSON array, which is also its storage encoding.
func (k Key) String() string {
	data, err := json.Marshal([]string(k))
	if err != nil {
		return fmt.Sprintf("%q", []string(k))
	}
	return string(data)
}

// ParseKey decodes a key produced by Key.String.
func ParseKey(encoded string) (Key, error) {
	var segments []string
	if err := json.Unmarshal([]byte(encoded), &segments); err != nil {
		return nil, fmt.Errorf("parse key %q: %w", encoded, err)
	}
	return Key(segments), nil
}

// Equal reports whether both keys have the same segments.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Store is the minimal persistence contract.
type Store interface {
	// Get decodes the value stored at key into dst and reports whether it
	// existed. A missing key is not an error.
	Get(ctx context.Context, key Key, dst any) (bool, error)
	Set(ctx context.Context, key Key, value any) error
	// Delete removes key; deleting a missing key succeeds.
	Delete(ctx context.Context, key Key) error
	Close() error
}

// Open returns the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "", config.StoreSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath())
	case config.StoreValkey:
		return OpenValkey(ctx, cfg.Store.ValkeyAddr, cfg.Store.ValkeyPassword)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "kvstore", "open",
			fmt.Sprintf("unknown store backend %q", cfg.Store.Backend), nil)
	}
}

func encodeValue(key Key, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value for %s: %w", key, err)
	}
	return data, nil
}

func decodeValue(key Key, data []byte, dst any) error {
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode value for %s: %w", key, err)
	}
	return nil
}
