package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tapedeck/internal/downloader"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage produced files on the server",
	}

	filesCmd.AddCommand(newFilesListCommand(ctx))
	filesCmd.AddCommand(newFilesSaveCommand(ctx))
	filesCmd.AddCommand(newFilesRmCommand(ctx))

	return filesCmd
}

func newFilesListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files available for download",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *downloader.Client) error {
				files, err := client.ListFiles(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, files)
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No files on the server")
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{f.Filename, humanize.Bytes(uint64(f.Size))})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out, []string{"File", "Size"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newFilesSaveCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "save FILENAME [FILENAME...]",
		Short: "Download produced files to the local disk",
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
				for _, filename := range args {
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

func newFilesRmCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rm [FILENAME...]",
		Short: "Delete produced files from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all does not take filenames")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("name files to delete or pass --all")
			}
			return ctx.withClient(func(client *downloader.Client) error {
				if all {
					if err := client.DeleteAllFiles(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted all files")
					return nil
				}
				for _, filename := range args {
					if err := client.DeleteFile(cmd.Context(), filename); err != nil {
						return fmt.Errorf("delete %s: %w", filename, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", filename)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every file on the server")
	return cmd
}
