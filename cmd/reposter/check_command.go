package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reposter/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories and the configured store are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			results := preflight.RunAll(cmd.Context(), cfg)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, yesNo(r.Passed), r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Check", "Passed", "Detail"}, rows))

			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			fmt.Fprintf(out, "Store backend %q ready; partition %q\n", cfg.Store.Backend, cfg.Pipeline.Partition)
			return nil
		},
	}
}
