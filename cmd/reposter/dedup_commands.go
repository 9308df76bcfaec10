package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"reposter/internal/dedup"
	"reposter/internal/kvstore"
	"reposter/internal/pipeline"
	"reposter/internal/posts"
	"reposter/internal/stages"
)

const previewRunes = 40

func newDedupCommand(ctx *commandContext) *cobra.Command {
	dedupCmd := &cobra.Command{
		Use:   "dedup",
		Short: "Find, record, filter and forget duplicate posts",
	}

	dedupCmd.AddCommand(newDedupFindCommand(ctx))
	dedupCmd.AddCommand(newDedupFilterCommand(ctx))
	dedupCmd.AddCommand(newDedupForgetCommand(ctx))

	return dedupCmd
}

func addAxisFlag(cmd *cobra.Command, axis *string) {
	cmd.Flags().StringVar(axis, "axis", posts.AxisContent,
		fmt.Sprintf("Fingerprint axis (%s)", strings.Join(posts.Axes(), ", ")))
}

// partitionPosts emits every stored post of the input partitions, honouring
// --limit and the configured delay.
func partitionPosts(ctx *commandContext, store kvstore.Store) (pipeline.Stage[string, posts.ArchivedPost], error) {
	logger, err := ctx.loggerValue()
	if err != nil {
		return nil, err
	}
	return pipeline.Chain[string, kvstore.Key, posts.ArchivedPost](
		posts.LoadArchivedKeys(store, logger),
		paced[kvstore.Key, posts.ArchivedPost](ctx, posts.LoadArchived(store)),
	), nil
}

func newDedupFindCommand(ctx *commandContext) *cobra.Command {
	var axis string
	var record bool
	var save bool

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Group stored posts by fingerprint and list the duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fingerprint, err := posts.Fingerprint(axis)
			if err != nil {
				return err
			}
			partition := ctx.partition()

			return ctx.withStore(cmd.Context(), func(store kvstore.Store) error {
				source, err := partitionPosts(ctx, store)
				if err != nil {
					return err
				}
				collector := dedup.CollectDuplicates(fingerprint)
				stage := pipeline.Chain[string, posts.ArchivedPost, struct{}](source, collector)
				if _, err := runStage(cmd.Context(), ctx, stage, []string{partition}); err != nil {
					return err
				}

				groups := collector.Duplicates()
				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintf(out, "No duplicates among %d distinct post(s) on axis %q\n", collector.Seen(), axis)
					return nil
				}
				fmt.Fprintln(out, renderGroups(cmd, groups))
				fmt.Fprintf(out, "%d duplicate group(s) on axis %q\n", len(groups), axis)

				if save {
					if err := saveGroups(cmd.Context(), ctx, axis, groups); err != nil {
						return err
					}
				}
				if record {
					written, err := dedup.RecordDuplicates(cmd.Context(), store, partition, axis, groups, posts.Identity)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Recorded %d duplicate(s)\n", written)
				}
				return nil
			})
		},
	}

	addAxisFlag(cmd, &axis)
	cmd.Flags().BoolVar(&record, "record", false, "Persist a duplicate record for every duplicate found")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the groups as JSON under paths.output_dir")
	return cmd
}

func renderGroups(cmd *cobra.Command, groups []dedup.Group[posts.ArchivedPost]) string {
	headers := []string{"#", "Original", "Duplicates", "Text"}
	rows := make([][]string, 0, len(groups))
	for i, group := range groups {
		ids := make([]string, 0, len(group.Duplicates))
		for _, dup := range group.Duplicates {
			ids = append(ids, dup.ID)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			group.Original.ID,
			strings.Join(ids, ", "),
			preview(group.Original.Text),
		})
	}
	return renderTable(cmd.OutOrStdout(), headers, rows, 0)
}

func saveGroups(ctx context.Context, cc *commandContext, axis string, groups []dedup.Group[posts.ArchivedPost]) error {
	logger, err := cc.loggerValue()
	if err != nil {
		return err
	}
	write := stages.WriteJSON[[]dedup.Group[posts.ArchivedPost]](cc.configValue().Paths.OutputDir, "duplicates_"+axis, logger)
	_, err = runStage[[]dedup.Group[posts.ArchivedPost], []dedup.Group[posts.ArchivedPost]](ctx, cc, write, [][]dedup.Group[posts.ArchivedPost]{groups})
	return err
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewRunes-1]) + "…"
}

func newDedupFilterCommand(ctx *commandContext) *cobra.Command {
	var axis string
	var actionFlag string
	var asJSON bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the ids of stored posts that pass the duplicate filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := dedup.ParseAction(actionFlag)
			if err != nil {
				return err
			}
			if _, err := posts.Fingerprint(axis); err != nil {
				return err
			}
			partition := ctx.partition()
			out := cmd.OutOrStdout()

			return ctx.withStore(cmd.Context(), func(store kvstore.Store) error {
				source, err := partitionPosts(ctx, store)
				if err != nil {
					return err
				}
				var stage pipeline.Stage[string, posts.ArchivedPost] = pipeline.Chain[string, posts.ArchivedPost, posts.ArchivedPost](
					source, dedup.Filter(store, partition, axis, action, posts.Identity))

				if asJSON {
					stage = pipeline.Chain[string, posts.ArchivedPost, posts.ArchivedPost](stage, stages.Echo[posts.ArchivedPost](out))
				} else {
					stage = pipeline.Chain[string, posts.ArchivedPost, posts.ArchivedPost](stage, stages.Tap("PrintPostId", func(_ context.Context, p posts.ArchivedPost) error {
						_, err := fmt.Fprintln(out, p.ID)
						return err
					}))
				}
				if strings.TrimSpace(outPath) != "" {
					stage = pipeline.Chain[string, posts.ArchivedPost, posts.ArchivedPost](stage, stages.WriteLines(outPath, func(p posts.ArchivedPost) string { return p.ID }))
				}
				counter := stages.Count[posts.ArchivedPost]()
				stage = pipeline.Chain[string, posts.ArchivedPost, posts.ArchivedPost](stage, counter)

				_, err = runStage(cmd.Context(), ctx, stage, []string{partition})
				fmt.Fprintf(cmd.ErrOrStderr(), "%s post(s) passed (%s)\n", counter, action)
				return err
			})
		},
	}

	addAxisFlag(cmd, &axis)
	cmd.Flags().StringVar(&actionFlag, "action", string(dedup.Drop), "drop removes recorded duplicates, keep lists only them")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print full posts as JSON instead of ids")
	cmd.Flags().StringVar(&outPath, "out", "", "Also append passing ids to this file")
	return cmd
}

func newDedupForgetCommand(ctx *commandContext) *cobra.Command {
	var axis string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "forget [post-id...]",
		Short: "Delete duplicate records so posts are classified again",
		Long:  "Delete the duplicate record of each named post, or of every stored post in the partition when no ids are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := posts.Fingerprint(axis); err != nil {
				return err
			}
			partition := ctx.partition()
			logger, err := ctx.loggerValue()
			if err != nil {
				return err
			}

			return ctx.withStore(cmd.Context(), func(store kvstore.Store) error {
				keys, err := forgetTargets(cmd.Context(), ctx, store, partition, args)
				if err != nil {
					return err
				}
				if len(keys) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to forget")
					return nil
				}

				stage := paced[kvstore.Key, posts.ArchivedPost](ctx, posts.LoadArchived(store))
				if !assumeYes {
					confirm := stages.Confirm(func(p posts.ArchivedPost) string {
						return fmt.Sprintf("Forget duplicate record for %s (%s)?", p.ID, preview(p.Text))
					}, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
					stage = pipeline.Chain[kvstore.Key, posts.ArchivedPost, posts.ArchivedPost](stage, confirm)
				}
				forget := pipeline.Chain[posts.ArchivedPost, posts.ArchivedPost, posts.ArchivedPost](
					dedup.ForgetStage(store, partition, axis, posts.Identity),
					stages.Stderr(func(p posts.ArchivedPost) string { return "forgot " + p.ID + "\n" }, cmd.ErrOrStderr()),
				)
				forgotten, err := runStage(cmd.Context(), ctx, pipeline.Chain[kvstore.Key, posts.ArchivedPost, posts.ArchivedPost](stage, forget), keys)
				fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d duplicate record(s) on axis %q\n", len(forgotten), axis)
				return err
			})
		},
	}

	addAxisFlag(cmd, &axis)
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// forgetTargets maps explicit ids to post keys, or lists the whole partition.
func forgetTargets(ctx context.Context, cc *commandContext, store kvstore.Store, partition string, ids []string) ([]kvstore.Key, error) {
	if len(ids) > 0 {
		keys := make([]kvstore.Key, 0, len(ids))
		for _, id := range ids {
			if id = strings.TrimSpace(id); id == "" {
				return nil, errors.New("post id must not be empty")
			}
			keys = append(keys, posts.PostKey(partition, id))
		}
		return keys, nil
	}
	logger, err := cc.loggerValue()
	if err != nil {
		return nil, err
	}
	return runStage[string, kvstore.Key](ctx, cc, posts.LoadArchivedKeys(store, logger), []string{partition})
}
