package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/search"
	"github.com/nikbrunner/sidebar/internal/tui/layout"
)

// renderView creates the two-pane sidebar view.
func (a App) renderView() string {
	switch a.mode {
	case ModeSearch:
		return a.renderModal(a.renderSearch())
	case ModeHelp:
		return a.renderModal(a.renderHelpOverlay())
	}

	geom := layout.SplitPanes(a.width, a.height, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderPane(PaneTabs, geom),
		" ",
		a.renderPane(PaneBookmarks, geom),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, columns, a.renderMessageLine(), a.renderHints(a.contextualHints())),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderPane(p Pane, geom layout.PaneGeometry) string {
	var content strings.Builder

	content.WriteString(a.styles.Title.Render(p.String()) + "\n")

	itemWidth := geom.ItemWidth
	rows := a.rows(p)
	focused := a.pane == p
	dragging := a.mode == ModeDrag && a.drag.Pane == p

	focus := a.cursor[p]
	if dragging && a.drag.Target >= 0 {
		geom = geom.WithDropLine()
		focus = a.drag.Target
	}

	if len(rows) == 0 {
		content.WriteString(a.styles.Empty.Render("(empty)"))
	} else {
		start, end := layout.CenteredWindow(focus, len(rows), geom.Rows)
		for i := start; i < end; i++ {
			isTarget := dragging && i == a.drag.Target
			if isTarget && a.drag.Position == dnd.Before {
				content.WriteString(a.renderDropLine(rows[i].Depth, itemWidth) + "\n")
			}
			content.WriteString(a.renderRow(rows[i], focused && i == a.cursor[p], isTarget, itemWidth) + "\n")
			if isTarget && a.drag.Position != dnd.Before {
				depth := rows[i].Depth
				if a.drag.Position.IsInside() {
					depth++
				}
				content.WriteString(a.renderDropLine(depth, itemWidth) + "\n")
			}
		}
	}

	style := a.styles.Pane
	if focused {
		style = a.styles.PaneActive
	}
	return style.
		Width(geom.Width).
		Height(geom.Height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderDropLine marks where the dragged rows will land.
func (a App) renderDropLine(depth, maxWidth int) string {
	indent := depth * a.layoutConfig.Pane.IndentWidth
	width := maxWidth - indent
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", indent) + a.styles.DropLine.Render(strings.Repeat("─", width))
}

func (a App) renderRow(row Row, isCursor, isTarget bool, maxWidth int) string {
	prefix := strings.Repeat(" ", row.Depth*a.layoutConfig.Pane.IndentWidth)
	var suffix string

	switch row.Kind {
	case model.KindGroup, model.KindFolder:
		if row.Expanded {
			prefix += "▾ "
		} else {
			prefix += "▸ "
		}
		if row.Kind == model.KindFolder {
			suffix = "/"
		}
		if row.Kind == model.KindGroup || !row.Expanded {
			suffix += fmt.Sprintf(" (%d)", row.Count)
		}
	case model.KindTab:
		if row.Pinned {
			prefix += "* "
		}
		if row.Linked {
			suffix = " ↗"
		}
	}

	isMarked := a.selection.IsSelected(row.Key)
	if isMarked && !isCursor {
		prefix = "+" + prefix
	}

	line, _ := layout.TruncateWithPrefixSuffix(row.Title, maxWidth, prefix, suffix, a.layoutConfig.Text)

	switch {
	case isCursor && a.mode != ModeDrag:
		if pad := maxWidth - layout.VisibleLength(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return a.styles.ItemSelected.Render(line)
	case isTarget:
		return a.styles.DropTarget.Render(line)
	case a.mode == ModeDrag && a.drag.IsDragged(row.Key):
		return a.styles.Dragged.Render(line)
	case isMarked:
		return a.styles.ItemMarked.Render(line)
	case row.Kind == model.KindGroup:
		return a.styles.groupStyle(row.Color).Render(line)
	}
	return a.styles.Item.Render(line)
}

func (a App) renderMessageLine() string {
	if a.message == "" {
		return ""
	}
	if a.isError {
		return a.styles.Error.Render(a.message)
	}
	if a.mode == ModeDrag && a.drag.Target >= 0 {
		return a.styles.Message.Render(fmt.Sprintf("%s: %s", a.message, a.drag.Position))
	}
	return a.styles.Message.Render(a.message)
}

// renderModal centers an overlay with the hint bar below it.
func (a App) renderModal(body string) string {
	width := layout.ModalWidth(a.width, a.layoutConfig.Modal)
	box := a.styles.Modal.Width(width).Render(body)
	content := lipgloss.JoinVertical(lipgloss.Center, box, a.renderHints(a.contextualHints()))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a App) renderSearch() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Search") + "\n\n")
	b.WriteString(a.search.Input.View() + "\n\n")

	results := a.search.Results
	if len(results) == 0 {
		if a.search.Input.Value() != "" {
			b.WriteString(a.styles.Empty.Render("(no matches)"))
		}
		return b.String()
	}

	width := layout.ModalWidth(a.width, a.layoutConfig.Modal) - 6
	start, end := layout.TrailingWindow(a.search.Cursor, len(results), a.layoutConfig.Modal.SearchMaxVisible)
	for i := start; i < end; i++ {
		b.WriteString(a.renderResult(results[i], i == a.search.Cursor, width) + "\n")
	}
	b.WriteString(a.styles.Help.Render(fmt.Sprintf("%d/%d", a.search.Cursor+1, len(results))))
	return b.String()
}

// renderResult highlights the matched characters of a search result.
func (a App) renderResult(r search.Result, selected bool, maxWidth int) string {
	text := r.Title
	if text == "" {
		text = r.URL
	}
	matched := make(map[int]bool, len(r.MatchedIndexes))
	for _, i := range r.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder
	if selected {
		b.WriteString("> ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(kindBadge(r.Kind) + " ")
	for i, ch := range text {
		if matched[i] {
			b.WriteString(a.styles.Match.Render(string(ch)))
		} else {
			b.WriteRune(ch)
		}
	}
	if r.Path != "" {
		b.WriteString(" " + a.styles.URL.Render(r.Path))
	}
	return layout.TruncateANSIAware(b.String(), maxWidth, a.layoutConfig.Text)
}

func kindBadge(k model.Kind) string {
	switch k {
	case model.KindTab:
		return "[tab]"
	case model.KindFolder:
		return "[dir]"
	default:
		return "[bm] "
	}
}

func (a App) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys") + "\n\n")
	for _, binding := range a.keys.helpBindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "%-10s %s\n", h.Key, a.styles.Help.Render(h.Desc))
	}
	return strings.TrimRight(b.String(), "\n")
}
