package testsupport

import (
	"context"
	"testing"

	"reposter/internal/config"
	"reposter/internal/kvstore"
)

// MustOpenStore opens the SQLite store configured by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *kvstore.SQLite {
	t.Helper()

	store, err := kvstore.OpenSQLite(context.Background(), cfg.SQLitePath())
	if err != nil {
		t.Fatalf("kvstore.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustSet stores value at key or fails the test.
func MustSet(t testing.TB, store kvstore.Store, key kvstore.Key, value any) {
	t.Helper()

	if err := store.Set(context.Background(), key, value); err != nil {
		t.Fatalf("store.Set %s: %v", key, err)
	}
}
