// Package config loads, normalizes, and validates reposter configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REPOSTER_VALKEY_PASSWORD. The Config type centralizes every knob the CLI
// needs: where the key-value store lives, where abort diagnostics go, and the
// defaults applied to every pipeline.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
