package driving

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// NavigateOptions controls how Navigate combines parameters.
type NavigateOptions struct {
	// Merge overlays the new parameters on the current location.
	// Keys absent from the new parameters are retained.
	Merge bool
}

// Router owns the current catalog location.
type Router interface {
	// Current returns a copy of the current location parameters.
	Current() domain.QueryParameterSet

	// Navigate moves to a new location and returns it.
	// Navigating to the current location is a no-op.
	Navigate(ctx context.Context, params domain.QueryParameterSet, opts NavigateOptions) domain.QueryParameterSet

	// Subscribe receives the current location and every later change.
	Subscribe(fn func(domain.QueryParameterSet)) func()

	// Restore navigates to the most recently recorded location.
	Restore(ctx context.Context) (domain.QueryParameterSet, error)
}

// FilterSync keeps the filter form, the location and the catalog in step.
type FilterSync interface {
	// Start reads the location once, fetches the first page and then
	// follows form and location changes.
	Start(ctx context.Context) error

	// Stop releases every subscription and drops any pending edit.
	Stop()

	// Flush applies a pending debounced edit immediately.
	Flush()

	// SetPageSize changes the perPage sent with later fetches.
	SetPageSize(size int)

	// SubscribeErrors receives fetch failures.
	SubscribeErrors(fn func(error)) func()
}

// FilterForm holds the filter values being edited.
type FilterForm interface {
	// Value returns a copy of the current values.
	Value() domain.FilterState

	// SetValue replaces the values as a user edit.
	SetValue(state domain.FilterState)

	// Update applies fn to a copy of the values as a user edit.
	Update(fn func(*domain.FilterState))

	// Reset restores the defaults as a user edit.
	Reset()

	// Subscribe receives every user edit.
	Subscribe(fn func(domain.FilterState)) func()
}

// CatalogPager drives the paged catalog view.
type CatalogPager interface {
	// Open binds the pager to the current location.
	Open(ctx context.Context)

	// Close releases every subscription made by Open.
	Close()

	// CurrentPage returns the 1-based page shown.
	CurrentPage() int

	// Window returns the visible page buttons.
	Window() domain.ButtonWindow

	// SubscribeWindow receives every rebuilt button window.
	SubscribeWindow(fn func(domain.ButtonWindow)) func()

	// Click selects the page at a zero-based index, as a page button would.
	Click(index int) error

	// Next, Previous, First and Last move like the native paginator
	// controls and report whether the page changed.
	Next() bool
	Previous() bool
	First() bool
	Last() bool

	// SetPageSize changes the number of listings per page, keeping the
	// first visible listing on screen, and refetches. It reports whether
	// the size changed.
	SetPageSize(size int) bool

	// SubscribeErrors receives fetch failures caused by page changes.
	SubscribeErrors(fn func(error)) func()
}

// CatalogBrowser is one interactive catalog session: the form being
// edited, the synchronizer that applies it and the pager below the results.
type CatalogBrowser struct {
	Form  FilterForm
	Sync  FilterSync
	Pager CatalogPager
}
