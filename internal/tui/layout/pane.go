package layout

// PaneGeometry is the size of each of the two side-by-side panes and of the
// row area inside them.
type PaneGeometry struct {
	Width     int // outer width handed to the pane style
	Height    int
	ItemWidth int // cells available to one row
	Rows      int // rows that fit below the pane title
}

// SplitPanes sizes the tab pane and the bookmark pane for a terminal. Both
// panes share one geometry and never shrink below the configured minimums.
func SplitPanes(terminalWidth, terminalHeight int, cfg PaneConfig) PaneGeometry {
	width := max((terminalWidth-cfg.WidthOffset)/2, cfg.MinWidth)
	height := max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
	return PaneGeometry{
		Width:     width,
		Height:    height,
		ItemWidth: max(width-cfg.ContentPadding, 1),
		Rows:      max(height-cfg.HeaderLines, 1),
	}
}

// WithDropLine gives up one row to the drop indicator drawn during a drag.
func (g PaneGeometry) WithDropLine() PaneGeometry {
	if g.Rows > 1 {
		g.Rows--
	}
	return g
}

// CenteredWindow returns the [start, end) range of rows to draw so that focus
// stays visible, scrolling to keep it near the middle of the pane.
func CenteredWindow(focus, total, visible int) (start, end int) {
	if total <= visible {
		return 0, total
	}
	start = max(0, min(focus-visible/2, total-visible))
	return start, start + visible
}
