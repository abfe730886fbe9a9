package domain

import "time"

// Default API settings.
const (
	DefaultAPIBaseURL = "http://localhost:3000/api"
	DefaultAPITimeout = 15 * time.Second
	DefaultRetryMax   = 3
	DefaultRateLimit  = 10.0
)

// DefaultDebounce is the quiet period before filter edits trigger navigation.
const DefaultDebounce = 300 * time.Millisecond

// Bounds accepted for the catalog settings.
const (
	MaxPageSize     = 100
	MaxButtonRadius = 10
)

// APISettings holds backend connection configuration.
type APISettings struct {
	// BaseURL is the backend root, e.g. "https://medmart.example/api".
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RetryMax is the number of retries for idempotent requests.
	RetryMax int

	// RateLimit is the client-side request budget per second. Zero disables it.
	RateLimit float64
}

// CatalogSettings holds browsing configuration.
type CatalogSettings struct {
	// PageSize is the perPage value sent with every catalog fetch.
	PageSize int

	// Radius is the number of neighbour page buttons on each side.
	Radius int

	// Debounce is the quiet period before filter edits apply.
	Debounce time.Duration

	ShowFirstButton bool
	ShowLastButton  bool
}

// WindowOptions returns pagination window options for the given position.
func (c CatalogSettings) WindowOptions(totalItems, currentIndex int) WindowOptions {
	return WindowOptions{
		TotalItems:      totalItems,
		PageSize:        c.PageSize,
		CurrentIndex:    currentIndex,
		Radius:          c.Radius,
		ShowFirstButton: c.ShowFirstButton,
		ShowLastButton:  c.ShowLastButton,
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	API     APISettings
	Catalog CatalogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:   DefaultAPIBaseURL,
			Timeout:   DefaultAPITimeout,
			RetryMax:  DefaultRetryMax,
			RateLimit: DefaultRateLimit,
		},
		Catalog: CatalogSettings{
			PageSize:        DefaultPageSize,
			Radius:          DefaultButtonRadius,
			Debounce:        DefaultDebounce,
			ShowFirstButton: true,
			ShowLastButton:  true,
		},
	}
}
