package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/search"
)

func twoResults() []search.SearchResult {
	return []search.SearchResult{
		{Bookmark: &model.Bookmark{ID: "b1", Title: "GitHub [code]", URL: "https://github.com", Tags: []string{"code"}}},
		{Bookmark: &model.Bookmark{ID: "b2", Title: "GitLab", URL: "https://gitlab.com"}},
	}
}

func press(p Picker, msg tea.KeyMsg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"j moves down", []tea.KeyMsg{runes("j")}, 1},
		{"k from top stays", []tea.KeyMsg{runes("k")}, 0},
		{"j past end stays", []tea.KeyMsg{runes("j"), runes("j"), runes("j")}, 1},
		{"arrows", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyUp}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(twoResults(), "git", model.ModeNormal)
			for _, k := range tt.keys {
				p, _ = press(p, k)
			}
			if p.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", p.cursor, tt.want)
			}
		})
	}
}

func TestPicker_EnterSelects(t *testing.T) {
	p := New(twoResults(), "git", model.ModeNormal)
	p.cursor = 1

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})

	if p.Action() != ActionOpen {
		t.Errorf("Action() = %v, want ActionOpen", p.Action())
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
	if got := p.SelectedBookmark(); got == nil || got.ID != "b2" {
		t.Errorf("SelectedBookmark() = %+v", got)
	}
}

func TestPicker_YankCopies(t *testing.T) {
	p := New(twoResults(), "git", model.ModeNormal)

	p, cmd := press(p, runes("y"))

	if p.Action() != ActionCopy || cmd == nil {
		t.Errorf("expected copy action and quit, got %v", p.Action())
	}
}

func TestPicker_EnterOnEmptyDoesNothing(t *testing.T) {
	p := New(nil, "nothing", model.ModeNormal)

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil || p.SelectedBookmark() != nil {
		t.Error("expected no selection on empty results")
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(twoResults(), "git", model.ModeNormal)

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEsc})

	if !p.Cancelled() {
		t.Error("expected cancelled after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if p.SelectedBookmark() != nil || p.Action() != ActionNone {
		t.Error("expected nothing selected when cancelled")
	}
}

func TestPicker_View(t *testing.T) {
	p := New(twoResults(), "git", model.ModeIncognito)
	view := p.View()

	for _, want := range []string{"2 results", "[incognito]", "GitHub", "#code", "https://gitlab.com"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "[code]") {
		t.Error("view should show the display title without the tag suffix")
	}
}
