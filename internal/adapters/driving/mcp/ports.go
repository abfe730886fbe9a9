package mcp

import (
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog loads listings and templates.
	Catalog driving.CatalogService

	// Auth gates the doctor-only tools. Optional; without it they report
	// that nobody is signed in.
	Auth driving.AuthService

	// Bookmarks exposes saved catalog locations. Optional.
	Bookmarks driving.BookmarkService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
