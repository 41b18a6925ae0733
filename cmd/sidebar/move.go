package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var (
	moveTarget   string
	movePosition string
	moveTabs     bool
)

var moveCmd = &cobra.Command{
	Use:   "move <id>...",
	Short: "Move bookmarks, tabs or groups",
	Long: `Drop the given entities on --target, exactly as a drag in the
interactive view would. Bookmark ids are moved by default; with --tabs the
ids are tab ids or group keys (group-N).

Positions: before, after, into (last child), first (first child).`,
	Example: `  sidebar move 3f2a... --target 1 --position into
  sidebar move --tabs 4 group-2 --target 1 --position before`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().StringVar(&moveTarget, "target", "", "id of the drop target")
	moveCmd.Flags().StringVar(&movePosition, "position", "before", "before, after, into or first")
	moveCmd.Flags().BoolVar(&moveTabs, "tabs", false, "move tabs and groups instead of bookmarks")
	_ = moveCmd.MarkFlagRequired("target")
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "move")

	pos, err := dnd.ParsePosition(movePosition)
	if err != nil {
		return err
	}

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		var out move.Outcome
		if moveTabs {
			sel, err := parseTabSelection(args)
			if err != nil {
				return false, err
			}
			target, err := move.ParseTabTarget(moveTarget)
			if err != nil {
				return false, err
			}
			out, err = ws.Mover.DropTabs(ctx, sel, target, pos)
			if err != nil {
				return false, err
			}
		} else {
			out, err = ws.Mover.DropBookmarks(ctx, args, moveTarget, pos)
			if err != nil {
				return false, err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return out.Moved > 0, nil
	})
}

func parseTabSelection(args []string) (move.TabSelection, error) {
	var sel move.TabSelection
	for _, a := range args {
		if id, ok := model.ParseGroupKey(a); ok {
			sel.GroupIDs = append(sel.GroupIDs, id)
			continue
		}
		id, err := strconv.Atoi(a)
		if err != nil {
			return move.TabSelection{}, fmt.Errorf("invalid tab id %q", a)
		}
		sel.TabIDs = append(sel.TabIDs, id)
	}
	return sel, nil
}
