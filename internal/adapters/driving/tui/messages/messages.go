// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewCatalog is the filterable, paged service catalog.
	ViewCatalog
	// ViewMyServices lists the signed-in doctor's own listings.
	ViewMyServices
	// ViewBookmarks lists saved catalog locations.
	ViewBookmarks
	// ViewLogin is the sign-in form.
	ViewLogin
	// ViewSettings edits the catalog and backend settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewCatalog:
		return "catalog"
	case ViewMyServices:
		return "my_services"
	case ViewBookmarks:
		return "bookmarks"
	case ViewLogin:
		return "login"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// BrowserStarted is sent once the catalog has its first page and the
// pager is bound to the location.
type BrowserStarted struct {
	// Filters are the form values read from the location.
	Filters domain.FilterState
	Err     error
}

// CatalogPageLoaded carries a published catalog page.
type CatalogPageLoaded struct {
	Page domain.ServicePage
}

// PageWindowChanged carries a rebuilt set of page buttons.
type PageWindowChanged struct {
	Window domain.ButtonWindow
}

// PageMoved reports the outcome of a pager key.
type PageMoved struct {
	Moved bool
	Err   error
}

// LoggedIn reports a sign-in attempt.
type LoggedIn struct {
	User *domain.User
	Err  error
}

// LoggedOut reports a sign-out.
type LoggedOut struct {
	Err error
}

// MyServicesLoaded carries the signed-in doctor's listings.
type MyServicesLoaded struct {
	Services []domain.DoctorService
	Err      error
}

// ServiceDeleted reports a listing deletion.
type ServiceDeleted struct {
	ID  int
	Err error
}

// BookmarksLoaded carries the saved bookmarks.
type BookmarksLoaded struct {
	Bookmarks []domain.Bookmark
	Err       error
}

// BookmarkOpened asks the app to browse a saved location.
type BookmarkOpened struct {
	Bookmark domain.Bookmark
}

// BookmarkRemoved reports a bookmark deletion.
type BookmarkRemoved struct {
	Name string
	Err  error
}

// SettingsLoaded is sent when settings have been read.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved is sent after a settings change was persisted.
type SettingsSaved struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsReloaded is sent when settings changed, on disk or from the
// settings view.
type SettingsReloaded struct {
	Settings domain.AppSettings
}
