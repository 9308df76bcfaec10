package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reposter/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The directories exist when NewConfig returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DiagnosticsDir = filepath.Join(base, "diagnostics")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Store.SQLitePath = filepath.Join(base, "data", "reposter.db")
	cfgVal.Pipeline.Partition = "test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.DataDir, cfgVal.Paths.LogDir, cfgVal.Paths.DiagnosticsDir, cfgVal.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithPartition overrides the default partition on the test config.
func WithPartition(partition string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.Partition = partition
	}
}

// WithStopOnError overrides the pipeline stop-on-error default.
func WithStopOnError(stop bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.StopOnError = stop
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// WriteConfig encodes cfg as TOML at path so CLI tests can pass --config.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}
