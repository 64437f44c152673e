package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tapedeck/internal/downloader"
)

func newSaveCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "save ID [ID...]",
		Short: "Download the produced files of finished queue items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if destDir == "" {
				destDir = cfg.DownloadDir
			}
			return ctx.withClient(func(client *downloader.Client) error {
				for _, id := range args {
					item, err := client.FetchItem(cmd.Context(), id)
					if err != nil {
						return fmt.Errorf("fetch %s: %w", id, err)
					}
					filename := item.FileName()
					if filename == "" {
						return fmt.Errorf("item %s has no file yet (status %s)", id, item.Status)
					}
					dest, err := client.SaveFile(cmd.Context(), filename, destDir)
					if err != nil {
						return fmt.Errorf("save %s: %w", filename, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dest)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&destDir, "dir", "d", "", "Destination directory (defaults to download_dir)")
	return cmd
}
