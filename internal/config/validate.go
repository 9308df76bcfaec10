package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateDiagnostics(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreSQLite:
		return nil
	case StoreValkey:
		if c.Store.ValkeyAddr == "" {
			return errors.New("store.valkey_addr must be set when store.backend is valkey")
		}
		return nil
	default:
		return fmt.Errorf("store.backend: unsupported value %q (expected sqlite or valkey)", c.Store.Backend)
	}
}

func (c *Config) validateDiagnostics() error {
	switch c.Diagnostics.Backend {
	case DiagnosticsDir:
		return nil
	case DiagnosticsMinIO:
		if c.Diagnostics.MinIOEndpoint == "" {
			return errors.New("diagnostics.minio_endpoint must be set when diagnostics.backend is minio")
		}
		if c.Diagnostics.MinIOAccessKey == "" || c.Diagnostics.MinIOSecretKey == "" {
			return errors.New("diagnostics.minio_access_key and minio_secret_key are required (or set REPOSTER_MINIO_ACCESS_KEY / REPOSTER_MINIO_SECRET_KEY)")
		}
		return nil
	default:
		return fmt.Errorf("diagnostics.backend: unsupported value %q (expected dir or minio)", c.Diagnostics.Backend)
	}
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.DelayMS < 0 {
		return errors.New("pipeline.delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
