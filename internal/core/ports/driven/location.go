package driven

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// LocationStore records visited catalog locations.
type LocationStore interface {
	// RecordLocation appends a location to the history.
	RecordLocation(ctx context.Context, loc domain.Location) error

	// RecentLocations returns up to limit locations, newest first.
	RecentLocations(ctx context.Context, limit int) ([]domain.Location, error)

	// LatestLocation returns the most recent location.
	// Returns domain.ErrNotFound when the history is empty.
	LatestLocation(ctx context.Context) (*domain.Location, error)
}

// BookmarkStore persists named locations.
type BookmarkStore interface {
	// SaveBookmark stores a bookmark, replacing any bookmark with the same name.
	SaveBookmark(ctx context.Context, b domain.Bookmark) error

	// GetBookmark returns a bookmark by name.
	// Returns domain.ErrNotFound if it does not exist.
	GetBookmark(ctx context.Context, name string) (*domain.Bookmark, error)

	// ListBookmarks returns all bookmarks sorted by name.
	ListBookmarks(ctx context.Context) ([]domain.Bookmark, error)

	// DeleteBookmark removes a bookmark by name.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteBookmark(ctx context.Context, name string) error
}
