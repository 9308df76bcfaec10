package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"reposter/internal/config"
	"reposter/internal/kvstore"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStore opens and closes the configured store. A SQLite store that
// another process holds open fails this check.
func CheckStore(ctx context.Context, cfg *config.Config) Result {
	name := "Store (" + cfg.Store.Backend + ")"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := kvstore.Open(checkCtx, cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := store.Close(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("close: %v", err)}
	}

	detail := cfg.Store.ValkeyAddr
	if cfg.Store.Backend != config.StoreValkey {
		detail = cfg.SQLitePath()
	}
	return Result{Name: name, Passed: true, Detail: detail + " (reachable)"}
}
