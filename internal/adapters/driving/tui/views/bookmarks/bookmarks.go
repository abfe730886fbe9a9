// Package bookmarks lists saved catalog locations.
package bookmarks

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// View lists bookmarks; enter reopens one in the catalog.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	bookmarks driving.BookmarkService
	ctx       context.Context

	items    []domain.Bookmark
	selected int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates the view.
func NewView(s *styles.Styles, km *keymap.KeyMap, bookmarks driving.BookmarkService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		bookmarks: bookmarks,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the bookmarks.
func (v *View) Init() tea.Cmd {
	v.err = nil
	if v.bookmarks == nil {
		return nil
	}
	v.loading = true

	bookmarks, ctx := v.bookmarks, v.ctx
	return func() tea.Msg {
		items, err := bookmarks.List(ctx)
		return messages.BookmarksLoaded{Bookmarks: items, Err: err}
	}
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.BookmarksLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.items = msg.Bookmarks
			v.clamp()
		}
		return v, nil

	case messages.BookmarkRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		kept := make([]domain.Bookmark, 0, len(v.items))
		for _, b := range v.items {
			if b.Name != msg.Name {
				kept = append(kept, b)
			}
		}
		v.items = kept
		v.clamp()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Select):
		if b := v.Selected(); b != nil {
			opened := *b
			return v, func() tea.Msg { return messages.BookmarkOpened{Bookmark: opened} }
		}
	case keymap.Matches(key, v.keymap.Delete):
		if b := v.Selected(); b != nil && v.bookmarks != nil {
			name, bookmarks, ctx := b.Name, v.bookmarks, v.ctx
			return v, func() tea.Msg {
				return messages.BookmarkRemoved{Name: name, Err: bookmarks.Remove(ctx, name)}
			}
		}
	}
	return v, nil
}

func (v *View) clamp() {
	if v.selected >= len(v.items) {
		v.selected = len(v.items) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// View renders the bookmarks.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Bookmarks"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case len(v.items) == 0:
		b.WriteString(v.styles.Muted.Render("No bookmarks. Save one with 'medmart bookmark save'."))
	default:
		for i, item := range v.items {
			line := fmt.Sprintf("%-20s %s", item.Name, describeQuery(item.Query))
			if i == v.selected {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] Open  [d] Delete  [esc] Back"))
	return b.String()
}

func describeQuery(q domain.QueryParameterSet) string {
	if len(q) == 0 {
		return "(all services)"
	}
	return q.Encode()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Bookmarks returns the bookmarks on screen.
func (v *View) Bookmarks() []domain.Bookmark {
	return v.items
}

// Selected returns the highlighted bookmark, or nil.
func (v *View) Selected() *domain.Bookmark {
	if v.selected < 0 || v.selected >= len(v.items) {
		return nil
	}
	return &v.items[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
