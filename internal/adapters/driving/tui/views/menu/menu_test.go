package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

func labels(v *View) []string {
	out := make([]string, 0, len(v.Items()))
	for _, it := range v.Items() {
		out = append(out, it.Label)
	}
	return out
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.Equal(t, []string{"Browse services", "Bookmarks", "Sign in", "Settings", "Help", "Quit"}, labels(view))
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_SetUser(t *testing.T) {
	view := NewView(nil)

	view.SetUser(&domain.User{Name: "Pat", Role: domain.RolePatient})
	assert.Equal(t, []string{"Browse services", "Bookmarks", "Sign out", "Settings", "Help", "Quit"}, labels(view))

	view.SetUser(&domain.User{Name: "Dr Who", Role: domain.RoleDoctor})
	assert.Equal(t, []string{"Browse services", "My services", "Bookmarks", "Sign out", "Settings", "Help", "Quit"}, labels(view))
}

func TestView_SetUserClampsSelection(t *testing.T) {
	view := NewView(nil)
	view.SetUser(&domain.User{Role: domain.RoleDoctor})
	for i := 0; i < 10; i++ {
		view.Update(keyRune('j'))
	}
	require.Equal(t, 6, view.Selected())

	view.SetUser(nil)

	assert.Equal(t, 5, view.Selected())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil)

	view.Update(keyRune('k'))
	assert.Equal(t, 0, view.Selected())

	view.Update(keyRune('j'))
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, view.Selected())
}

func TestView_SelectView(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewCatalog}, cmd())
}

func TestView_SelectSignIn(t *testing.T) {
	view := NewView(nil)
	view.Update(keyRune('j'))
	view.Update(keyRune('j'))

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewLogin}, cmd())
}

func TestView_SelectSignOut(t *testing.T) {
	view := NewView(nil)
	view.SetUser(&domain.User{Role: domain.RolePatient})
	view.Update(keyRune('j'))
	view.Update(keyRune('j'))

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.LoggedOut{}, cmd())
}

func TestView_SelectSettings(t *testing.T) {
	view := NewView(nil)
	for i := 0; i < 3; i++ {
		view.Update(keyRune('j'))
	}

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSettings}, cmd())
}

func TestView_SelectQuit(t *testing.T) {
	view := NewView(nil)
	for i := 0; i < 5; i++ {
		view.Update(keyRune('j'))
	}

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_QuitKey(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(keyRune('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Render(t *testing.T) {
	view := NewView(nil)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	view.SetUser(&domain.User{Name: "Dr Who", Role: domain.RoleDoctor})
	out := view.View()

	assert.Contains(t, out, "medmart")
	assert.Contains(t, out, "Signed in as Dr Who (doctor)")
	assert.Contains(t, out, "> ")
	assert.Contains(t, out, "My services")
}
