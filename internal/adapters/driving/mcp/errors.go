// Package mcp provides an MCP (Model Context Protocol) server adapter for medmart.
// It lets AI assistants browse the services catalog and saved bookmarks.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
