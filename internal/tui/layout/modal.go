package layout

const modalMargin = 4

// ModalWidth sizes an overlay as a share of the terminal width, clamped to
// the configured bounds and to the terminal minus a margin.
func ModalWidth(terminalWidth int, cfg ModalConfig) int {
	width := min(max(terminalWidth*cfg.WidthPercent/100, cfg.MinWidth), cfg.MaxWidth)
	return max(min(width, terminalWidth-modalMargin), 1)
}

// TrailingWindow returns the [start, end) range of a list showing at most
// maxVisible items, scrolled only as far as needed to keep focus on screen.
func TrailingWindow(focus, total, maxVisible int) (start, end int) {
	if total <= maxVisible {
		return 0, total
	}
	start = max(0, focus-maxVisible+1)
	return start, min(start+maxVisible, total)
}
