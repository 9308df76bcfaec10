package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reposter/internal/config"
	"reposter/internal/kvstore"
	"reposter/internal/pipeline"
	"reposter/internal/posts"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive.json>",
		Short: "Store the posts of an archive file in the current partition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve archive path: %w", err)
			}
			partition := ctx.partition()

			return ctx.withStore(cmd.Context(), func(store kvstore.Store) error {
				archiver := posts.StoreArchived(store, partition)
				stage := pipeline.Chain[string, posts.ArchivedPost, posts.ArchivedPost](paced[string, posts.ArchivedPost](ctx, posts.ReadArchive()), archiver)

				_, runErr := runStage(cmd.Context(), ctx, stage, []string{path})

				// Keys stored before an abort are still listed so a rerun
				// sees them.
				if err := archiver.SaveKeyList(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %d post(s) in partition %q\n", archiver.Stored(), partition)
				return runErr
			})
		},
	}
}
