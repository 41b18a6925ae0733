package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/sidebar/internal/model"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemMarked   lipgloss.Style
	Dragged      lipgloss.Style
	DropTarget   lipgloss.Style
	DropLine     lipgloss.Style
	URL          lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	Message      lipgloss.Style
	Error        lipgloss.Style
	Match        lipgloss.Style
	Modal        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders
	warn := lipgloss.AdaptiveColor{Light: "#8A4A4A", Dark: "#AF7575"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(1).
			PaddingRight(1),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		ItemSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemMarked: lipgloss.NewStyle().
			Foreground(accent),

		Dragged: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		DropTarget: lipgloss.NewStyle().
			Foreground(accent).
			Underline(true),

		DropLine: lipgloss.NewStyle().
			Foreground(accent),

		URL: lipgloss.NewStyle().
			Foreground(subtle),

		Help: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Message: lipgloss.NewStyle().
			Foreground(primary),

		Error: lipgloss.NewStyle().
			Foreground(warn),

		Match: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}

var groupColors = map[model.Color]lipgloss.Color{
	model.ColorGrey:   lipgloss.Color("#8A8A8A"),
	model.ColorBlue:   lipgloss.Color("#5F87AF"),
	model.ColorRed:    lipgloss.Color("#AF5F5F"),
	model.ColorYellow: lipgloss.Color("#AFAF5F"),
	model.ColorGreen:  lipgloss.Color("#5FAF5F"),
	model.ColorPink:   lipgloss.Color("#D787AF"),
	model.ColorPurple: lipgloss.Color("#875FAF"),
	model.ColorCyan:   lipgloss.Color("#5FAFAF"),
	model.ColorOrange: lipgloss.Color("#D7875F"),
}

// groupStyle colors a group header with its group color.
func (s Styles) groupStyle(c model.Color) lipgloss.Style {
	color, ok := groupColors[c]
	if !ok {
		return s.Item
	}
	return s.Item.Foreground(color).Bold(true)
}
