package tui

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("tui: catalog service is required")

// ErrMissingRouter is returned when the router is not provided.
var ErrMissingRouter = errors.New("tui: router is required")

// ErrMissingAuthService is returned when the auth service is not provided.
var ErrMissingAuthService = errors.New("tui: auth service is required")

// ErrMissingBrowserFactory is returned when no catalog browser factory is provided.
var ErrMissingBrowserFactory = errors.New("tui: browser factory is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
