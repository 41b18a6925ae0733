package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sidebar/internal/importer"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var importParent string

var importCmd = &cobra.Command{
	Use:   "import <file.html>",
	Short: "Import bookmarks from a browser HTML export",
	Long: `Import a Netscape bookmark file as exported by every major browser.

Folders are recreated below --parent (Other Bookmarks by default). A
toolbar folder in the file is merged into the Bookmarks Bar.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importParent, "parent", model.OtherID, "folder to import into")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "import")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer file.Close()

	nodes, err := importer.Parse(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		result, err := importer.Apply(ctx, ws.Bookmarks, ws.Coordinator, importParent, nodes)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", result)
		return result.Folders+result.Bookmarks > 0, nil
	})
}
