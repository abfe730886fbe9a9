// Package tui provides the interactive terminal interface for medmart.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/views/catalog"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog loads and publishes listings.
	Catalog driving.CatalogService

	// Router owns the catalog location.
	Router driving.Router

	// Auth manages the signed-in session.
	Auth driving.AuthService

	// Bookmarks stores named catalog locations. Optional.
	Bookmarks driving.BookmarkService

	// Settings supplies paging preferences. Optional; defaults apply without it.
	Settings driving.SettingsService

	// NewBrowser builds the form, synchroniser and pager for one catalog session.
	NewBrowser catalog.BrowserFactory
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Catalog == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingCatalogService)
	}
	if p.Router == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingRouter)
	}
	if p.Auth == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingAuthService)
	}
	if p.NewBrowser == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingBrowserFactory)
	}
	return nil
}
