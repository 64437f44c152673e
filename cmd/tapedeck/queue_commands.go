package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tapedeck/internal/downloader"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var quality string

	cmd := &cobra.Command{
		Use:   "add URL [URL...]",
		Short: "Queue one or more source URLs for download",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if quality == "" {
				quality = cfg.Quality
			}
			if !downloader.IsValidQuality(quality) {
				return fmt.Errorf("unknown quality %q (valid: %s)", quality, strings.Join(downloader.Qualities, ", "))
			}
			return ctx.withClient(func(client *downloader.Client) error {
				items, err := client.Submit(cmd.Context(), args, quality)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d item(s)\n", len(items))
				printItems(cmd, items)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Audio bitrate (128k, 192k, 256k, 320k)")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				items, err := client.FetchQueue(cmd.Context())
				if err != nil {
					return err
				}
				items = filterByStatus(items, statuses)
				if asJSON {
					return writeJSON(cmd, items)
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				printItems(cmd, items)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only show items with these statuses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				stats, err := client.FetchStats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}
				rows := [][]string{
					{"total", fmt.Sprintf("%d", stats.Total)},
					{"pending", fmt.Sprintf("%d", stats.Pending)},
					{"downloading", fmt.Sprintf("%d", stats.Downloading)},
					{"completed", fmt.Sprintf("%d", stats.Completed)},
					{"failed", fmt.Sprintf("%d", stats.Failed)},
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out, []string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a queue item",
		Long:  "Cancel a queue item. Cancelling an item the server no longer knows about succeeds.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				if err := client.Cancel(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cancelled %s\n", args[0])
				return nil
			})
		},
	}
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry ID",
		Short: "Retry a failed queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				item, err := client.Retry(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printItems(cmd, []downloader.Item{*item})
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed and skipped items from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				if err := client.ClearCompleted(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared completed items")
				return nil
			})
		},
	}
}

func newCancelAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-all",
		Short: "Cancel every pending and in-progress item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				if err := client.CancelAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled all active items")
				return nil
			})
		},
	}
}

func newClearAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-all",
		Short: "Remove every item from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				if err := client.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared the queue")
				return nil
			})
		},
	}
}

func filterByStatus(items []downloader.Item, statuses []string) []downloader.Item {
	if len(statuses) == 0 {
		return items
	}
	want := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		want[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	filtered := items[:0]
	for _, item := range items {
		if _, ok := want[strings.ToLower(item.Status)]; ok {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func printItems(cmd *cobra.Command, items []downloader.Item) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Title", "Status", "Progress", "Size"},
		buildItemRows(items),
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}
