package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List open tabs and groups",
	Args:  cobra.NoArgs,
	RunE:  runTabs,
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [folder-id]",
	Short: "Print the bookmark tree with ids",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBookmarks,
}

func init() {
	rootCmd.AddCommand(tabsCmd)
	rootCmd.AddCommand(bookmarksCmd)
}

func runTabs(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd, "tabs")

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		var (
			tabs   []model.Tab
			groups []model.TabGroup
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			tabs, err = ws.Tabs.QueryTabs(gctx, host.TabFilter{})
			return err
		})
		g.Go(func() error {
			var err error
			groups, err = ws.Tabs.QueryGroups(gctx, host.GroupFilter{})
			return err
		})
		if err := g.Wait(); err != nil {
			return false, err
		}

		printTabs(cmd.OutOrStdout(), move.NewTabOrder(tabs, groups), ws.Registry.Association)
		return false, nil
	})
}

func printTabs(w io.Writer, order move.TabOrder, association func(int) (string, bool)) {
	if len(order.Tabs) == 0 {
		fmt.Fprintln(w, "No open tabs")
		return
	}
	for _, t := range order.Tabs {
		indent := ""
		if t.Grouped() {
			if span, ok := order.Span(t.GroupID); ok {
				if t.Index == span.First {
					state := ""
					if span.Group.Collapsed {
						state = ", collapsed"
					}
					fmt.Fprintf(w, "%s %s (%s%s)\n", model.GroupKey(span.Group.ID), span.Group.Title, span.Group.Color, state)
				}
				indent = "  "
			}
		}
		marker := ""
		if key, ok := association(t.ID); ok {
			marker = "  -> " + key
		}
		fmt.Fprintf(w, "%s%-4d %s  %s%s\n", indent, t.ID, t.DisplayTitle(), t.URL, marker)
	}
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "bookmarks")
	id := model.RootID
	if len(args) > 0 {
		id = args[0]
	}

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		tree, err := ws.Bookmarks.GetSubtree(ctx, id)
		if err != nil {
			return false, err
		}
		out := cmd.OutOrStdout()
		if tree.ID == model.RootID {
			for _, child := range tree.Children {
				printTree(out, child, 0)
			}
		} else {
			printTree(out, tree, 0)
		}
		return false, nil
	})
}

func printTree(w io.Writer, n model.BookmarkNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsFolder() {
		fmt.Fprintf(w, "%s%s/  [%s]\n", indent, n.Title, n.ID)
		for _, child := range n.Children {
			printTree(w, child, depth+1)
		}
		return
	}
	fmt.Fprintf(w, "%s%s  %s  [%s]\n", indent, n.Title, n.URL, n.ID)
}
