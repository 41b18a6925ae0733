package layout

import "testing"

func TestModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"capped at max", 200, 80},
		{"percentage of terminal", 120, 72},
		{"raised to min", 60, 40},
		{"limited by terminal margin", 30, 26},
		{"never below one", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModalWidth(tt.terminalWidth, cfg); got != tt.want {
				t.Errorf("ModalWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestTrailingWindow(t *testing.T) {
	tests := []struct {
		name                     string
		focus, total, maxVisible int
		wantStart, wantEnd       int
	}{
		{"short list", 4, 5, 8, 0, 5},
		{"focus on first page", 3, 20, 8, 0, 8},
		{"focus on last visible row", 7, 20, 8, 0, 8},
		{"focus one past the page", 8, 20, 8, 1, 9},
		{"focus on last item", 19, 20, 8, 12, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := TrailingWindow(tt.focus, tt.total, tt.maxVisible)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("TrailingWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tt.focus, tt.total, tt.maxVisible, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
