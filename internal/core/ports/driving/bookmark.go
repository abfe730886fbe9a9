package driving

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// BookmarkService manages saved and recent locations.
type BookmarkService interface {
	// Save stores the query under name, replacing an existing bookmark.
	Save(ctx context.Context, name string, query domain.QueryParameterSet) (*domain.Bookmark, error)

	// List returns all bookmarks.
	List(ctx context.Context) ([]domain.Bookmark, error)

	// Get returns a bookmark by name.
	Get(ctx context.Context, name string) (*domain.Bookmark, error)

	// Remove deletes a bookmark by name.
	Remove(ctx context.Context, name string) error

	// History returns up to limit recent locations, newest first.
	History(ctx context.Context, limit int) ([]domain.Location, error)
}
