package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"reposter/internal/config"
	"reposter/internal/diagnostics"
	"reposter/internal/kvstore"
	"reposter/internal/logging"
	"reposter/internal/pipeline"
)

type globalFlags struct {
	config      string
	partition   string
	limit       int
	stopOnError bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.configErr = fmt.Errorf("load .env: %w", err)
			return
		}
		var path string
		if c.flags != nil {
			path = strings.TrimSpace(c.flags.config)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// applyFlags lets explicitly set global flags override the loaded config.
func (c *commandContext) applyFlags(cmd *cobra.Command) error {
	cfg := c.configValue()
	if cfg == nil || c.flags == nil {
		return nil
	}
	if partition := strings.TrimSpace(c.flags.partition); partition != "" {
		cfg.Pipeline.Partition = partition
	}
	if cmd.Flags().Changed("stop-on-error") {
		cfg.Pipeline.StopOnError = c.flags.stopOnError
	}
	if c.flags.limit < 0 {
		return fmt.Errorf("--limit must be zero or positive, got %d", c.flags.limit)
	}
	return nil
}

func (c *commandContext) partition() string {
	return c.configValue().Pipeline.Partition
}

func (c *commandContext) limit() int {
	if c.flags == nil {
		return 0
	}
	return c.flags.limit
}

func (c *commandContext) loggerValue() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(c.configValue())
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) withStore(ctx context.Context, fn func(kvstore.Store) error) error {
	store, err := kvstore.Open(ctx, c.configValue())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) runOptions(ctx context.Context) (pipeline.Options, error) {
	logger, err := c.loggerValue()
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("configure logging: %w", err)
	}
	reporter, err := diagnostics.Open(ctx, c.configValue())
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("configure diagnostics: %w", err)
	}
	return pipeline.Options{Logger: logger, Reporter: reporter}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
