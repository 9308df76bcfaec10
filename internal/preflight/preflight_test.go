package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reposter/internal/config"
	"reposter/internal/kvstore"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DiagnosticsDir = filepath.Join(base, "diagnostics")
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.DiagnosticsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return &cfg
}

func TestRunAllPasses(t *testing.T) {
	cfg := testConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
}

func TestRunAllSkipsDiagnosticsDirForMinIO(t *testing.T) {
	cfg := testConfig(t)
	cfg.Diagnostics.Backend = config.DiagnosticsMinIO
	if got := len(RunAll(context.Background(), cfg)); got != 3 {
		t.Fatalf("expected 3 results, got %d", got)
	}
}

func TestCheckStoreLocked(t *testing.T) {
	cfg := testConfig(t)
	held, err := kvstore.OpenSQLite(context.Background(), cfg.SQLitePath())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer held.Close()

	result := CheckStore(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure while another handle holds the store")
	}
	if !Failed([]Result{result}) {
		t.Fatal("expected Failed to report the locked store")
	}
}
