package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tapedeck/internal/downloader"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one queue item in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				item, err := client.FetchItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, item)
				}
				out := cmd.OutOrStdout()
				rows := [][]string{
					{"ID", item.ID},
					{"Title", item.DisplayTitle()},
					{"URL", item.URL},
					{"Status", item.Status},
					{"Quality", item.Quality},
				}
				if cell := progressCell(*item); cell != "" {
					rows = append(rows, []string{"Progress", cell})
				}
				if item.FilePath != "" {
					rows = append(rows, []string{"File", item.FilePath})
				}
				if cell := sizeCell(*item); cell != "" {
					rows = append(rows, []string{"Size", cell})
				}
				if item.Error != "" {
					rows = append(rows, []string{"Error", item.Error})
				}
				if item.CreatedAt != "" {
					rows = append(rows, []string{"Created", item.CreatedAt})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
