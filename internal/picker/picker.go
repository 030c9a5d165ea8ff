// Package picker is a minimal terminal list for choosing one search result.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("37"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Action is what the user chose to do with the selection.
type Action int

const (
	ActionNone Action = iota
	ActionOpen        // Enter: open the URL
	ActionCopy        // y: copy the URL to the clipboard
)

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results   []search.SearchResult
	query     string
	mode      model.PrivacyMode
	cursor    int
	action    Action
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query string, mode model.PrivacyMode) Picker {
	return Picker{
		results: results,
		query:   query,
		mode:    mode,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) == 0 {
				return p, nil
			}
			p.action = ActionOpen
			return p, tea.Quit

		case tea.KeyDown:
			p.move(1)
			return p, nil

		case tea.KeyUp:
			p.move(-1)
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.move(1)
			case "k":
				p.move(-1)
			case "y":
				if len(p.results) > 0 {
					p.action = ActionCopy
					return p, tea.Quit
				}
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
			return p, nil
		}
	}

	return p, nil
}

func (p *Picker) move(delta int) {
	next := p.cursor + delta
	if next >= 0 && next < len(p.results) {
		p.cursor = next
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))
	if p.mode == model.ModeIncognito {
		header += " [incognito]"
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		line := style.Render(result.Bookmark.DisplayTitle())
		if len(result.Bookmark.Tags) > 0 {
			line += " " + tagStyle.Render("#"+strings.Join(result.Bookmark.Tags, " #"))
		}

		fmt.Fprintf(&b, "%s%s\n", cursor, line)
		fmt.Fprintf(&b, "   %s\n", urlStyle.Render(result.Bookmark.URL))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  Enter: print URL  y: copy URL  q/Esc: cancel"))

	return b.String()
}

// SelectedBookmark returns the selected bookmark, or nil if cancelled.
func (p Picker) SelectedBookmark() *model.Bookmark {
	if p.cancelled || p.action == ActionNone {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Bookmark
	}
	return nil
}

// Action returns the chosen action, ActionNone if cancelled.
func (p Picker) Action() Action {
	if p.cancelled {
		return ActionNone
	}
	return p.action
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
