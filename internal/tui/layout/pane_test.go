package layout

import "testing"

func TestCalculatePaneHeight(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"normal terminal", 24, 17},               // 24 - 7 = 17
		{"large terminal", 50, 43},                // 50 - 7 = 43
		{"small terminal enforces min", 8, 5},     // 8 - 7 = 1, min is 5
		{"terminal smaller than reduction", 4, 5}, // negative clamps to min
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePaneHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculatePaneHeight(%d) = %d, want %d",
					tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculatePaneWidths(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name          string
		terminalWidth int
		wantList      int
		wantPreview   int
	}{
		{"wide terminal", 100, 48, 40},  // (100-12)*55% = 48, rest 40
		{"medium terminal", 60, 26, 22}, // (60-12)*55% = 26, rest 22
		{"narrow terminal clamps both", 40, 24, 20},
		{"tiny terminal", 5, 24, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePaneWidths(tt.terminalWidth, cfg)
			if got.ListWidth != tt.wantList || got.PreviewWidth != tt.wantPreview {
				t.Errorf("CalculatePaneWidths(%d) = {%d, %d}, want {%d, %d}",
					tt.terminalWidth, got.ListWidth, got.PreviewWidth, tt.wantList, tt.wantPreview)
			}
		})
	}
}

func TestCalculateItemWidth(t *testing.T) {
	cfg := DefaultConfig().Pane

	if got := CalculateItemWidth(30, cfg); got != 28 {
		t.Errorf("CalculateItemWidth(30) = %d, want 28", got)
	}
	if got := CalculateItemWidth(2, cfg); got != 1 {
		t.Errorf("CalculateItemWidth(2) = %d, want 1", got)
	}
}

func TestCalculateVisibleHeight(t *testing.T) {
	tests := []struct {
		paneHeight, headerLines, want int
	}{
		{17, 0, 17},
		{17, 2, 15},
		{1, 3, 1},
	}

	for _, tt := range tests {
		if got := CalculateVisibleHeight(tt.paneHeight, tt.headerLines); got != tt.want {
			t.Errorf("CalculateVisibleHeight(%d, %d) = %d, want %d",
				tt.paneHeight, tt.headerLines, got, tt.want)
		}
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name                      string
		selected, total, viewport int
		want                      int
	}{
		{"everything fits", 4, 5, 10, 0},
		{"near top", 1, 20, 5, 0},
		{"centered", 10, 20, 5, 8},
		{"clamped at bottom", 19, 20, 5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.viewport)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewport, got, tt.want)
			}
		})
	}
}
