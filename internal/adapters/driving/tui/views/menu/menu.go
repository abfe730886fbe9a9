// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Label  string
	View   messages.ViewType
	Quit   bool // If true, selecting this item quits the app
	Logout bool // If true, selecting this item signs out
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	user     *domain.User
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view for a signed-out user.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles: s,
		width:  80,
		height: 24,
	}
	v.SetUser(nil)
	return v
}

// SetUser rebuilds the items for the signed-in user, or nil when signed out.
func (v *View) SetUser(user *domain.User) {
	v.user = user

	items := []Item{{Label: "Browse services", View: messages.ViewCatalog}}
	if user != nil && user.IsDoctor() {
		items = append(items, Item{Label: "My services", View: messages.ViewMyServices})
	}
	items = append(items, Item{Label: "Bookmarks", View: messages.ViewBookmarks})
	if user != nil {
		items = append(items, Item{Label: "Sign out", Logout: true})
	} else {
		items = append(items, Item{Label: "Sign in", View: messages.ViewLogin})
	}
	items = append(items,
		Item{Label: "Settings", View: messages.ViewSettings},
		Item{Label: "Help", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)

	v.items = items
	if v.selected >= len(items) {
		v.selected = len(items) - 1
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			switch {
			case item.Quit:
				return v, tea.Quit
			case item.Logout:
				return v, func() tea.Msg { return messages.LoggedOut{} }
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("medmart"))
	b.WriteString("\n\n")

	subtitle := "Healthcare services marketplace"
	if v.user != nil {
		subtitle = "Signed in as " + v.user.Name + " (" + v.user.Role.String() + ")"
	}
	b.WriteString(v.styles.Muted.Render(subtitle))
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(v.styles.Theme().Primary).
				Bold(true)
		}

		b.WriteString(cursor + style.Render(item.Label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the visible menu items.
func (v *View) Items() []Item {
	return v.items
}
