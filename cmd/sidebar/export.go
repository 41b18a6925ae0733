package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sidebar/internal/exporter"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var exportFolder string

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export bookmarks as browser HTML",
	Long: `Write the bookmark tree, or the folder given with --folder, as a
Netscape bookmark file. The default path is a dated file in ~/Downloads.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFolder, "folder", model.RootID, "folder to export")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "export")

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		p, err := exporter.DefaultExportPath()
		if err != nil {
			return fmt.Errorf("failed to determine export path: %w", err)
		}
		path = p
	}

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		if err := exporter.ExportFile(ctx, ws.Bookmarks, exportFolder, path); err != nil {
			return false, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return false, nil
	})
}
