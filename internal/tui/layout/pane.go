package layout

// PaneLayout holds the calculated widths of the list and preview panes.
type PaneLayout struct {
	ListWidth    int
	PreviewWidth int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidths splits the terminal width between the list and the
// preview pane. Each side is clamped to its minimum.
func CalculatePaneWidths(terminalWidth int, cfg PaneConfig) PaneLayout {
	usable := terminalWidth - cfg.WidthOffset
	if usable < 0 {
		usable = 0
	}

	list := usable * cfg.ListWidthPercent / 100
	preview := usable - list
	if list < cfg.MinListWidth {
		list = cfg.MinListWidth
	}
	if preview < cfg.MinPreviewWidth {
		preview = cfg.MinPreviewWidth
	}

	return PaneLayout{ListWidth: list, PreviewWidth: preview}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	width := paneWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// CalculateVisibleHeight computes the visible row count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	height := paneHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, clamped to the valid range.
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}
	if maxOffset := total - viewportHeight; offset > maxOffset {
		offset = maxOffset
	}
	return offset
}
