package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/tui/layout"
	"github.com/nikbrunner/synthcache/internal/visibility"
)

func (a App) renderView() string {
	if a.state == StateHelp {
		return a.renderHelpOverlay()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	widths := layout.CalculatePaneWidths(a.width, a.layoutConfig.Pane)

	var right string
	if a.showStats {
		right = a.renderStatsPane(widths.PreviewWidth, paneHeight)
	} else {
		right = a.renderPreviewPane(widths.PreviewWidth, paneHeight)
	}
	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderListPane(widths.ListWidth, paneHeight),
		right,
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), columns, a.renderHelpBar()),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader shows the app name, the mode marker and the list count.
func (a App) renderHeader() string {
	var header strings.Builder
	header.WriteString("synthcache")
	if a.incognito() {
		header.WriteString(" " + a.styles.Incognito.Render("[incognito]"))
	}
	header.WriteString(fmt.Sprintf("  %d of %d", len(a.visible), len(visibility.Accessible(a.all, a.mode))))
	return a.styles.Header.Render(header.String())
}

func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	headerLines := 0
	switch {
	case a.state == StateSearch:
		content.WriteString("/" + a.searchInput.View() + "\n")
		headerLines++
	case a.filters.Search != "":
		content.WriteString(a.styles.Tag.Render("/"+a.filters.Search) + "\n")
		headerLines++
	}
	switch {
	case a.state == StateTagFilter:
		content.WriteString("#" + a.tagInput.View() + "\n")
		headerLines++
	case len(a.filters.Tags) > 0:
		content.WriteString(a.styles.Tag.Render(hashTags(a.filters.Tags)) + "\n")
		headerLines++
	}

	visibleHeight := layout.CalculateVisibleHeight(height, headerLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(a.visible) == 0 {
		if a.filters.Search != "" || len(a.filters.Tags) > 0 {
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(no bookmarks)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.cursor, len(a.visible), visibleHeight)
		for i, b := range a.visible {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			content.WriteString(a.renderItem(b, i == a.cursor, itemWidth) + "\n")
		}
	}

	style := a.styles.Pane
	if a.state == StateBrowse {
		style = a.styles.PaneActive
	}
	return style.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderItem renders one list row. Rows from the private folder carry a
// "!" marker.
func (a App) renderItem(b model.Bookmark, isCursor bool, maxWidth int) string {
	prefix := "  "
	if b.FolderType == model.FolderNSFWHidden {
		prefix = "! "
	}
	line := layout.TruncateWithPrefix(b.DisplayTitle(), maxWidth, prefix, a.layoutConfig.Text)

	switch {
	case isCursor:
		return a.styles.ItemSelected.Render(layout.PadRight(line, maxWidth))
	case b.FolderType == model.FolderNSFWHidden:
		return a.styles.Private.Render(line)
	default:
		return a.styles.Item.Render(line)
	}
}

func (a App) renderPreviewPane(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if b := a.Selected(); b != nil {
		title, _ := layout.TruncateText(b.DisplayTitle(), itemWidth, a.layoutConfig.Text)
		content.WriteString(a.styles.Title.Render(title) + "\n\n")

		url, _ := layout.TruncateText(b.URL, itemWidth, a.layoutConfig.Text)
		content.WriteString(a.styles.URL.Render(url) + "\n\n")

		if len(b.Tags) > 0 {
			tags, _ := layout.TruncateText(hashTags(b.Tags), itemWidth, a.layoutConfig.Text)
			content.WriteString(a.styles.Tag.Render(tags) + "\n\n")
		}

		content.WriteString(a.styles.Date.Render("Folder: "+b.FolderType.String()) + "\n")
		if !b.CreatedAt.IsZero() {
			content.WriteString(a.styles.Date.Render(fmt.Sprintf(
				"Added: %s (%s)", b.CreatedAt.Format("2006-01-02"), formatAge(b.CreatedAt, a.now()),
			)))
		}
	} else {
		content.WriteString(a.styles.Empty.Render("(nothing selected)"))
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderStatsPane shows the counts and the tag cloud for the current mode.
func (a App) renderStatsPane(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	stats := visibility.Summarize(a.all, a.mode)
	content.WriteString(a.styles.Title.Render("stats") + "\n")
	content.WriteString(fmt.Sprintf("Total: %d\n", stats.Total))
	content.WriteString(fmt.Sprintf("Tagged: %d\n", stats.Tagged))
	if stats.Private != nil {
		content.WriteString(a.styles.Private.Render(fmt.Sprintf("Private: %d", *stats.Private)) + "\n")
	}
	content.WriteString("\n" + a.styles.Title.Render("tags") + "\n")

	used := 5
	if stats.Private != nil {
		used++
	}
	cloud := visibility.TagCloud(a.all, a.mode, 0)
	if len(cloud) == 0 {
		content.WriteString(a.styles.Empty.Render("(no tags)"))
	}
	for i, tc := range cloud {
		if used+i >= height {
			break
		}
		line, _ := layout.TruncateText(fmt.Sprintf("#%s %d", tc.Tag, tc.Count), itemWidth, a.layoutConfig.Text)
		content.WriteString(a.styles.Tag.Render(line) + "\n")
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func (a App) renderHelpBar() string {
	var lines []string

	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, a.renderStatusToggles())

	if local := a.renderHints(a.contextualHints().All()); local != "" {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+local)
	}
	return strings.Join(lines, "\n")
}

// renderStatusToggles renders the toggle hints and the [ord:X] indicators.
func (a App) renderStatusToggles() string {
	var status strings.Builder
	status.WriteString(a.styles.HintLabel.Render("Toggle "))
	status.WriteString(a.renderHints(a.toggleHints()) + "  ")

	status.WriteString("[ord:" + string(a.filters.Sort) + "]")
	status.WriteString(" [normal:" + onOff(a.filters.ShowNormal) + "]")
	if a.incognito() {
		status.WriteString(" [private:" + onOff(a.filters.ShowNSFW) + "]")
	}
	return status.String()
}

func (a App) renderMessageLine() string {
	switch a.messageType {
	case MessageError:
		return a.styles.Error.Render("✗ " + a.messageText)
	case MessageSuccess:
		return a.styles.Success.Render("✓ " + a.messageText)
	default:
		return a.styles.Title.Render(a.messageText)
	}
}

func (a App) renderHelpOverlay() string {
	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("filter") + "\n")
	left.WriteString("/    search\n")
	left.WriteString("t    tag filter\n")
	left.WriteString("f    first tag\n")
	left.WriteString("x    clear\n")
	left.WriteString("o    sort mode\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("show") + "\n")
	right.WriteString("n    normal\n")
	if a.incognito() {
		right.WriteString("p    private\n")
	}
	right.WriteString("s    stats\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("act") + "\n")
	right.WriteString("y    yank url\n")
	right.WriteString("Y    yank title\n")
	right.WriteString("r    reload\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(18).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(20).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(cols),
	)
}

func hashTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return strings.Join(parts, " ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func formatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
