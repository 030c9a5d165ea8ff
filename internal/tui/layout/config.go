package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted before splitting the width between panes.
	// Accounts for the borders and padding of both panes plus app padding.
	WidthOffset int

	// ListWidthPercent is the share of the remaining width given to the list.
	ListWidthPercent int

	// MinListWidth and MinPreviewWidth clamp each pane.
	MinListWidth    int
	MinPreviewWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	TagCharLimit    int
	Width           int
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
			HeightReduction:  7,
			MinHeight:        5,
			WidthOffset:      12,
			ListWidthPercent: 55,
			MinListWidth:     24,
			MinPreviewWidth:  20,
			ContentPadding:   2,
		},
		Input: InputConfig{
			SearchCharLimit: 100,
			TagCharLimit:    15,
			Width:           30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
