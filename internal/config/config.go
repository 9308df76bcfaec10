package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"reposter/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvConfigPath names a config file to use when no explicit path is given.
const EnvConfigPath = "REPOSTER_CONFIG"

// projectConfigName is looked up in the working directory after the user
// config location.
const projectConfigName = "reposter.toml"

// Paths contains directory configuration.
type Paths struct {
	DataDir        string `toml:"data_dir"`
	LogDir         string `toml:"log_dir"`
	DiagnosticsDir string `toml:"diagnostics_dir"`
	OutputDir      string `toml:"output_dir"`
}

// Store selects and configures the key-value store backend.
type Store struct {
	Backend        string `toml:"backend"`
	SQLitePath     string `toml:"sqlite_path"`
	ValkeyAddr     string `toml:"valkey_addr"`
	ValkeyPassword string `toml:"valkey_password"`
}

// Diagnostics selects where abort-time diagnostic artifacts are written.
type Diagnostics struct {
	Backend        string `toml:"backend"`
	MinIOEndpoint  string `toml:"minio_endpoint"`
	MinIOAccessKey string `toml:"minio_access_key"`
	MinIOSecretKey string `toml:"minio_secret_key"`
	MinIOBucket    string `toml:"minio_bucket"`
	MinIOUseSSL    bool   `toml:"minio_use_ssl"`
}

// Pipeline contains defaults applied to every pipeline the CLI builds.
type Pipeline struct {
	StopOnError bool   `toml:"stop_on_error"`
	DelayMS     int    `toml:"delay_ms"`
	Partition   string `toml:"partition"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reposter.
//
// Configuration sections by subsystem:
//   - Paths: data, log, diagnostics and output directories
//   - Store: key-value backend (sqlite or valkey)
//   - Diagnostics: abort artifact sink (local directory or MinIO bucket)
//   - Pipeline: stop-on-error, pacing delay and default partition
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Store       Store       `toml:"store"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Pipeline    Pipeline    `toml:"pipeline"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config file at path over Default(), then normalizes and
// validates the result. It also reports which file was considered and
// whether it existed; a missing file is not an error and yields defaults.
//
// With an empty path the first existing candidate wins: $REPOSTER_CONFIG,
// ~/.config/reposter/config.toml, then ./reposter.toml.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate resolves the config file to read. Explicit paths are returned even
// when missing so callers can report where defaults came from.
func locate(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		return probe(path)
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return probe(env)
	}

	userPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if _, exists, err := probe(candidate); err == nil && exists {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func probe(path string) (string, bool, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return expanded, false, nil
	case err != nil:
		return "", false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the data, log and output directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := fileutil.EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// SQLitePath returns the database file used by the sqlite store backend.
func (c *Config) SQLitePath() string {
	if p := strings.TrimSpace(c.Store.SQLitePath); p != "" {
		return p
	}
	return filepath.Join(c.Paths.DataDir, "reposter.db")
}

// ExpandPath resolves a leading "~" and returns an absolute, cleaned path.
// The empty string is returned unchanged.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
