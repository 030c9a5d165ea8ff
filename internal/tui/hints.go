package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Action []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format: "j/k:move /:search"
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// contextualHints returns the hints for the current state.
func (a App) contextualHints() HintSet {
	switch a.state {
	case StateSearch:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "apply"}},
			System: []Hint{{Key: "Esc", Desc: "clear"}},
		}
	case StateTagFilter:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "toggle tag"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case StateHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{
			Nav: []Hint{
				{Key: "j/k", Desc: "move"},
				{Key: "gg/G", Desc: "top/end"},
			},
			Action: []Hint{
				{Key: "/", Desc: "search"},
				{Key: "t", Desc: "tag"},
				{Key: "y", Desc: "yank"},
				{Key: "s", Desc: "stats"},
			},
			System: []Hint{
				{Key: "?", Desc: "help"},
				{Key: "q", Desc: "quit"},
			},
		}
	}
}

// toggleHints lists the visibility toggles. The private toggle only exists
// in incognito mode.
func (a App) toggleHints() []Hint {
	hints := []Hint{
		{Key: "n", Desc: "normal"},
	}
	if a.incognito() {
		hints = append(hints, Hint{Key: "p", Desc: "private"})
	}
	hints = append(hints,
		Hint{Key: "o", Desc: "order"},
		Hint{Key: "x", Desc: "clear"},
	)
	return hints
}
