package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + pane borders (2) + message line (1) + help bar (2) = 6
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted before splitting the width between the tab
	// pane and the bookmark pane. Accounts for borders, padding and the gap.
	WidthOffset int

	// MinWidth is the minimum width of each pane.
	MinWidth int

	// ContentPadding is subtracted from pane width for row rendering.
	ContentPadding int

	// HeaderLines is the number of lines above the first row (pane title).
	HeaderLines int

	// IndentWidth is the number of columns per tree level.
	IndentWidth int
}

// ModalConfig holds overlay configuration.
type ModalConfig struct {
	// WidthPercent is the overlay width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum overlay width in characters.
	MinWidth int

	// MaxWidth is the maximum overlay width in characters.
	MaxWidth int

	// SearchMaxVisible: max results shown in the search overlay.
	SearchMaxVisible int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	SearchWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction: 6,
			MinHeight:       5,
			WidthOffset:     10,
			MinWidth:        24,
			ContentPadding:  4,
			HeaderLines:     1,
			IndentWidth:     2,
		},
		Modal: ModalConfig{
			WidthPercent:     60,
			MinWidth:         40,
			MaxWidth:         80,
			SearchMaxVisible: 8,
		},
		Input: InputConfig{
			SearchCharLimit: 100,
			SearchWidth:     40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
