package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/sidebar/internal/assoc"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/picker"
	"github.com/nikbrunner/sidebar/internal/search"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var searchList bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search tabs and bookmarks",
	Long: `Search open tabs and bookmarks. A single match is picked directly,
several open a picker. Picking a bookmark opens it in a new tab tied to the
bookmark; picking a tab prints it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchList, "list", false, "print all matches instead of picking one")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "search")
	query := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	return withWorkspace(ctx, func(ws *workspace.Workspace) (bool, error) {
		var (
			tree model.BookmarkNode
			tabs []model.Tab
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			tree, err = ws.Bookmarks.GetSubtree(gctx, model.RootID)
			return err
		})
		g.Go(func() error {
			var err error
			tabs, err = ws.Tabs.QueryTabs(gctx, host.TabFilter{})
			return err
		})
		if err := g.Wait(); err != nil {
			return false, err
		}

		results := search.All(tree, tabs, query)
		if len(results) == 0 {
			fmt.Fprintf(out, "No matches for '%s'\n", query)
			return false, nil
		}
		if searchList {
			for _, r := range results {
				printResult(out, r)
			}
			return false, nil
		}

		choice := results[0]
		if len(results) > 1 {
			final, err := tea.NewProgram(picker.New(results, query), tea.WithContext(ctx)).Run()
			if err != nil {
				return false, fmt.Errorf("failed to run picker: %w", err)
			}
			var ok bool
			choice, ok = final.(picker.Picker).Selected()
			if !ok {
				return false, nil
			}
		}

		if choice.Kind == model.KindTab {
			printResult(out, choice)
			return false, nil
		}
		if choice.URL == "" {
			fmt.Fprintf(out, "%s is a folder\n", choice.Title)
			return false, nil
		}

		tab, err := ws.Tabs.CreateTab(ctx, host.CreateTab{URL: choice.URL, Title: choice.Title})
		if err != nil {
			return false, fmt.Errorf("failed to open %s: %w", choice.URL, err)
		}
		ws.Registry.Associate(tab.ID, assoc.BookmarkKey(choice.BookmarkID))
		fmt.Fprintf(out, "Opened %s in tab %d\n", choice.Title, tab.ID)
		return true, nil
	})
}

func printResult(w io.Writer, r search.Result) {
	switch r.Kind {
	case model.KindTab:
		fmt.Fprintf(w, "tab %-6d %s  %s\n", r.TabID, r.Title, r.URL)
	case model.KindFolder:
		fmt.Fprintf(w, "dir %-6s %s  %s\n", r.BookmarkID, r.Title, r.Path)
	default:
		fmt.Fprintf(w, "bm  %-6s %s  %s\n", r.BookmarkID, r.Title, r.URL)
	}
}
