package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/bookmarks"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/catalog"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/login"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/myservices"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView       *menu.View
	catalogView    *catalog.View
	loginView      *login.View
	myServicesView *myservices.View
	bookmarksView  *bookmarks.View
	settingsView   *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// user is the signed-in user, nil when signed out.
	user *domain.User

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s),
		catalogView:    catalog.NewView(s, km, ports.Catalog, ports.NewBrowser, catalogSettings(ports.Settings)),
		loginView:      login.NewView(s, ports.Auth),
		myServicesView: myservices.NewView(s, km, ports.Catalog, ports.Auth),
		bookmarksView:  bookmarks.NewView(s, km, ports.Bookmarks),
		settingsView:   settings.NewView(s, ports.Settings),
		currentView:    messages.ViewMenu,
	}, nil
}

// catalogSettings reads the paging preferences, falling back to defaults.
func catalogSettings(settings driving.SettingsService) domain.CatalogSettings {
	if settings != nil {
		if current, err := settings.Get(); err == nil && current != nil {
			return current.Catalog
		}
	}
	return domain.DefaultAppSettings().Catalog
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.catalogView.WithContext(ctx)
	a.loginView.WithContext(ctx)
	a.myServicesView.WithContext(ctx)
	a.bookmarksView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("medmart"),
		a.restoreUser(),
	)
}

// restoreUser reports a session left over from a previous run.
func (a *App) restoreUser() tea.Cmd {
	auth, ctx := a.ports.Auth, a.ctx
	return func() tea.Msg {
		if !auth.IsTokenValid(ctx) {
			return nil
		}
		user, err := auth.CurrentUser(ctx)
		if err != nil {
			return nil
		}
		return messages.LoggedIn{User: user}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.catalogView.Close()
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.LoggedIn:
		a.loginView, cmd = a.loginView.Update(msg)
		if msg.Err != nil || msg.User == nil {
			return a, cmd
		}
		a.user = msg.User
		a.menuView.SetUser(msg.User)
		if a.currentView == messages.ViewLogin {
			a.currentView = messages.ViewMenu
		}
		return a, cmd

	case messages.LoggedOut:
		a.user = nil
		a.menuView.SetUser(nil)
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		return a, a.logout()

	case messages.BookmarkOpened:
		a.ports.Router.Navigate(a.ctx, msg.Bookmark.Query, driving.NavigateOptions{})
		return a, a.switchTo(messages.ViewCatalog)

	case messages.SettingsReloaded:
		var settingsCmd tea.Cmd
		a.catalogView, cmd = a.catalogView.Update(msg)
		a.settingsView, settingsCmd = a.settingsView.Update(msg)
		return a, tea.Batch(cmd, settingsCmd)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		a.catalogView.Close()
		return a, tea.Quit
	}

	// Forward everything else to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewCatalog:
		a.catalogView, cmd = a.catalogView.Update(msg)
	case messages.ViewLogin:
		a.loginView, cmd = a.loginView.Update(msg)
	case messages.ViewMyServices:
		a.myServicesView, cmd = a.myServicesView.Update(msg)
	case messages.ViewBookmarks:
		a.bookmarksView, cmd = a.bookmarksView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help is static
	}

	return a, cmd
}

// switchTo activates a view and returns its start-up command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if a.currentView == messages.ViewCatalog && view != messages.ViewCatalog {
		a.catalogView.Close()
	}
	a.currentView = view

	switch view {
	case messages.ViewCatalog:
		return a.catalogView.Open()
	case messages.ViewLogin:
		a.loginView.Reset()
		return a.loginView.Init()
	case messages.ViewMyServices:
		return a.myServicesView.Init()
	case messages.ViewBookmarks:
		return a.bookmarksView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
		// Nothing to load
	}
	return nil
}

func (a *App) logout() tea.Cmd {
	auth, ctx := a.ports.Auth, a.ctx
	return func() tea.Msg {
		if err := auth.Logout(ctx); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewCatalog:
		return a.catalogView.View()
	case messages.ViewLogin:
		return a.loginView.View()
	case messages.ViewMyServices:
		return a.myServicesView.View()
	case messages.ViewBookmarks:
		return a.bookmarksView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc           Back to Menu
  ctrl+c        Quit

Menu:
  j/k, ↑/↓      Navigate options
  enter         Select option
  q             Quit

Catalog:
  / or f        Edit filters
  tab           Next filter field
  enter         Apply filters now
  r             Reset filters
  ←/h, →/l      Previous / next page
  g, G          First / last page
  0-9, enter    Jump to a visible page by number

My services:
  d then y      Delete the selected listing

Bookmarks:
  enter         Open in the catalog
  d             Delete

Settings:
  enter         Edit, toggle or restore defaults
  esc           Cancel an edit

[esc] back to menu`
}

// NewProgram creates the Bubbletea program for the app.
func (a *App) NewProgram() *tea.Program {
	return tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
}

// Run starts the TUI application.
func (a *App) Run() error {
	_, err := a.NewProgram().Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// User returns the signed-in user, or nil.
func (a *App) User() *domain.User {
	return a.user
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.catalogView.SetDimensions(width, height)
	a.loginView.SetDimensions(width, height)
	a.myServicesView.SetDimensions(width, height)
	a.bookmarksView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
