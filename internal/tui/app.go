// Package tui is the interactive bookmark manager: a filterable list of
// the bookmarks the current privacy mode may see, with a detail and stats
// pane.
package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/tui/layout"
	"github.com/nikbrunner/synthcache/internal/visibility"
)

// App is the main bubbletea model for the bookmark manager.
type App struct {
	all     []model.Bookmark
	visible []model.Bookmark
	mode    model.PrivacyMode
	filters visibility.Filters

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	state       State
	searchInput textinput.Model
	tagInput    textinput.Model
	cursor      int
	showStats   bool
	lastKeyWasG bool

	messageText string
	messageType MessageType

	copy func(string) error
	load func() ([]model.Bookmark, error)
	now  func() time.Time

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Bookmarks    []model.Bookmark // annotated with tags and folder type
	Mode         model.PrivacyMode
	Filters      *visibility.Filters  // optional, uses visibility.DefaultFilters if nil
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Copy         func(string) error   // optional, writes to the system clipboard
	Load         func() ([]model.Bookmark, error)
	Now          func() time.Time
}

type bookmarksLoadedMsg struct {
	bookmarks []model.Bookmark
	err       error
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}
	filters := visibility.DefaultFilters()
	if params.Filters != nil {
		filters = *params.Filters
	}
	copyFn := params.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	app := App{
		all:          params.Bookmarks,
		mode:         params.Mode,
		filters:      filters,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		searchInput:  newSearchInput(layoutCfg),
		tagInput:     newTagInput(layoutCfg),
		copy:         copyFn,
		load:         params.Load,
		now:          now,
		width:        80,
		height:       24,
	}
	app.refresh()
	return app
}

// refresh reapplies mode and filters and clamps the cursor.
func (a *App) refresh() {
	a.filters = visibility.ForMode(a.filters, a.mode)
	a.visible = visibility.Apply(a.all, a.mode, a.filters)
	for i := range a.visible {
		a.visible[i].Tags = visibility.DisplayTags(a.visible[i], a.mode)
	}
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a App) incognito() bool {
	return a.mode == model.ModeIncognito
}

// WithDimensions returns a copy with the given terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Visible returns the bookmarks currently listed.
func (a App) Visible() []model.Bookmark {
	return a.visible
}

// Filters returns the active filters.
func (a App) Filters() visibility.Filters {
	return a.filters
}

// State returns the current input state.
func (a App) State() State {
	return a.state
}

// Message returns the current status message.
func (a App) Message() string {
	return a.messageText
}

// ShowingStats reports whether the stats pane replaces the detail pane.
func (a App) ShowingStats() bool {
	return a.showStats
}

// Selected returns the bookmark under the cursor, or nil.
func (a App) Selected() *model.Bookmark {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return nil
	}
	b := a.visible[a.cursor]
	return &b
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case bookmarksLoadedMsg:
		if msg.err != nil {
			a.setMessage(MessageError, "reload failed: "+msg.err.Error())
			return a, nil
		}
		a.all = msg.bookmarks
		a.refresh()
		a.setMessage(MessageSuccess, "Reloaded")
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case StateSearch:
			return a.updateSearch(msg)
		case StateTagFilter:
			return a.updateTagFilter(msg)
		case StateHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Cancel, a.keys.Quit) {
				a.state = StateBrowse
			}
			return a, nil
		default:
			return a.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case StateSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case StateTagFilter:
		a.tagInput, cmd = a.tagInput.Update(msg)
	}
	return a, cmd
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.messageText = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.visible) > 0 && a.cursor < len(a.visible)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}

	case key.Matches(msg, a.keys.Search):
		a.state = StateSearch
		a.searchInput.SetValue(a.filters.Search)
		a.searchInput.CursorEnd()
		return a, a.searchInput.Focus()

	case key.Matches(msg, a.keys.TagFilter):
		a.state = StateTagFilter
		a.tagInput.Reset()
		return a, a.tagInput.Focus()

	case key.Matches(msg, a.keys.TagFromItem):
		b := a.Selected()
		if b == nil || len(b.Tags) == 0 {
			a.setMessage(MessageInfo, "No tag to filter by")
			return a, nil
		}
		a.toggleTag(b.Tags[0])

	case key.Matches(msg, a.keys.ClearFilters):
		a.filters.Search = ""
		a.filters.Tags = nil
		a.searchInput.Reset()
		a.refresh()
		a.setMessage(MessageInfo, "Filters cleared")

	case key.Matches(msg, a.keys.ToggleNormal):
		a.filters.ShowNormal = !a.filters.ShowNormal
		a.cursor = 0
		a.refresh()

	case key.Matches(msg, a.keys.ToggleNSFW):
		if !a.incognito() {
			a.setMessage(MessageError, "Private bookmarks are only available in incognito mode")
			return a, nil
		}
		a.filters.ShowNSFW = !a.filters.ShowNSFW
		a.cursor = 0
		a.refresh()

	case key.Matches(msg, a.keys.Sort):
		a.filters.Sort = nextSort(a.filters.Sort)
		a.cursor = 0
		a.refresh()

	case key.Matches(msg, a.keys.YankURL):
		if b := a.Selected(); b != nil {
			a.yank(b.URL, "Copied URL")
		}

	case key.Matches(msg, a.keys.YankTitle):
		if b := a.Selected(); b != nil {
			a.yank(b.DisplayTitle(), "Copied title")
		}

	case key.Matches(msg, a.keys.Stats):
		a.showStats = !a.showStats

	case key.Matches(msg, a.keys.Reload):
		if a.load == nil {
			return a, nil
		}
		load := a.load
		return a, func() tea.Msg {
			bookmarks, err := load()
			return bookmarksLoadedMsg{bookmarks: bookmarks, err: err}
		}

	case key.Matches(msg, a.keys.Help):
		a.state = StateHelp
	}

	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.state = StateBrowse
		a.searchInput.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Cancel):
		a.state = StateBrowse
		a.searchInput.Blur()
		a.searchInput.Reset()
		a.filters.Search = ""
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.filters.Search = strings.TrimSpace(a.searchInput.Value())
	a.cursor = 0
	a.refresh()
	return a, cmd
}

func (a App) updateTagFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.state = StateBrowse
		a.tagInput.Blur()
		if tag := strings.ToLower(strings.TrimSpace(a.tagInput.Value())); tag != "" {
			a.toggleTag(tag)
		}
		return a, nil

	case key.Matches(msg, a.keys.Cancel):
		a.state = StateBrowse
		a.tagInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.tagInput, cmd = a.tagInput.Update(msg)
	return a, cmd
}

func (a *App) toggleTag(tag string) {
	f, err := visibility.ToggleTagFilter(a.filters, a.mode, tag)
	if errors.Is(err, visibility.ErrPrivateTag) {
		a.setMessage(MessageError, "Tag filter not available in normal mode")
		return
	}
	a.filters = f
	a.cursor = 0
	a.refresh()
}

func (a *App) yank(text, done string) {
	if err := a.copy(text); err != nil {
		a.setMessage(MessageError, "clipboard: "+err.Error())
		return
	}
	a.setMessage(MessageSuccess, done)
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
