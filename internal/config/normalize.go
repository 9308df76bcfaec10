package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizeDiagnostics()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DiagnosticsDir) == "" {
		c.Paths.DiagnosticsDir = defaultDiagnosticsDir
	}
	if c.Paths.DiagnosticsDir, err = expandPath(c.Paths.DiagnosticsDir); err != nil {
		return fmt.Errorf("paths.diagnostics_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Store.SQLitePath, err = expandPath(strings.TrimSpace(c.Store.SQLitePath)); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
	c.Store.ValkeyAddr = strings.TrimSpace(c.Store.ValkeyAddr)
	if c.Store.ValkeyAddr == "" {
		c.Store.ValkeyAddr = defaultValkeyAddr
	}
	if value, ok := os.LookupEnv("REPOSTER_VALKEY_PASSWORD"); ok && value != "" {
		c.Store.ValkeyPassword = value
	}
}

func (c *Config) normalizeDiagnostics() {
	c.Diagnostics.Backend = strings.ToLower(strings.TrimSpace(c.Diagnostics.Backend))
	if c.Diagnostics.Backend == "" {
		c.Diagnostics.Backend = defaultDiagBackend
	}
	c.Diagnostics.MinIOEndpoint = strings.TrimSpace(c.Diagnostics.MinIOEndpoint)
	c.Diagnostics.MinIOBucket = strings.TrimSpace(c.Diagnostics.MinIOBucket)
	if c.Diagnostics.MinIOBucket == "" {
		c.Diagnostics.MinIOBucket = defaultMinIOBucket
	}
	if value, ok := os.LookupEnv("REPOSTER_MINIO_ACCESS_KEY"); ok && value != "" {
		c.Diagnostics.MinIOAccessKey = value
	}
	if value, ok := os.LookupEnv("REPOSTER_MINIO_SECRET_KEY"); ok && value != "" {
		c.Diagnostics.MinIOSecretKey = value
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.Partition = strings.TrimSpace(c.Pipeline.Partition)
	if c.Pipeline.Partition == "" {
		c.Pipeline.Partition = defaultPartition
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
