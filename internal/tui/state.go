package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/synthcache/internal/tui/layout"
	"github.com/nikbrunner/synthcache/internal/visibility"
)

// State is the current input state of the manager.
type State int

const (
	StateBrowse State = iota
	StateSearch
	StateTagFilter
	StateHelp
)

// MessageType selects how the message line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// sortCycle is the order the sort key steps through.
var sortCycle = []visibility.SortMode{
	visibility.SortTitle,
	visibility.SortDate,
	visibility.SortFolder,
	visibility.SortTags,
}

func nextSort(current visibility.SortMode) visibility.SortMode {
	for i, m := range sortCycle {
		if m == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func newSearchInput(cfg layout.LayoutConfig) textinput.Model {
	input := textinput.New()
	input.Placeholder = "title, url or tag..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.Width
	return input
}

func newTagInput(cfg layout.LayoutConfig) textinput.Model {
	input := textinput.New()
	input.Placeholder = "tag"
	input.CharLimit = cfg.Input.TagCharLimit
	input.Width = cfg.Input.Width
	return input
}
