package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "reposter",
		Short:         "Import, deduplicate and republish archived posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			return ctx.applyFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.partition, "partition", "", "Storage partition (overrides pipeline.partition)")
	rootCmd.PersistentFlags().IntVar(&flags.limit, "limit", 0, "Process at most this many posts (0 means no limit)")
	rootCmd.PersistentFlags().BoolVar(&flags.stopOnError, "stop-on-error", true, "Abort the pipeline on the first failed item")

	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newDedupCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
