package preflight

import (
	"context"
	"strings"

	"reposter/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if strings.EqualFold(cfg.Diagnostics.Backend, config.DiagnosticsDir) {
		results = append(results, CheckDirectoryAccess("Diagnostics directory", cfg.Paths.DiagnosticsDir))
	}

	results = append(results, CheckStore(ctx, cfg))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
