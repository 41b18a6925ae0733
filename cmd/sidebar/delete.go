package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sidebar/internal/undo"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <bookmark-id>...",
	Short: "Delete bookmarks and folders",
	Long: `Delete bookmarks and whole folders. Nodes inside another deleted
folder go with it. Tabs tied to a deleted bookmark are closed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var closeCmd = &cobra.Command{
	Use:   "close <tab-id>...",
	Short: "Close tabs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClose,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(closeCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "delete")

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		action := undo.NewDeleteBookmarks(undo.DeleteBookmarksParams{
			Store:           ws.Bookmarks,
			Tabs:            ws.Tabs,
			Coordinator:     ws.Coordinator,
			IDs:             args,
			TabsForBookmark: ws.Registry.TabsForBookmark,
			Dissociate:      ws.Registry.Dissociate,
			Relink:          func(oldID, newID string) { ws.Registry.Rekey(oldID, newID) },
		})
		if err := action.Do(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(cmd.OutOrStdout(), action.Description())
		return action.Summary().Roots > 0, nil
	})
}

func runClose(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "close")

	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid tab id %q", a)
		}
		ids = append(ids, id)
	}

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		action := undo.NewCloseTabs(undo.CloseTabsParams{
			Store:       ws.Tabs,
			Coordinator: ws.Coordinator,
			IDs:         ids,
			Association: ws.Registry.Association,
			Reassociate: ws.Registry.Reassociate,
			Dissociate:  ws.Registry.Dissociate,
		})
		if err := action.Do(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(cmd.OutOrStdout(), action.Description())
		return action.Summary().Roots > 0, nil
	})
}
