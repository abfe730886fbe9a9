package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Ensure BookmarkService implements the interface.
var _ driving.BookmarkService = (*BookmarkService)(nil)

// DefaultHistoryLimit is the number of locations History returns for a
// non-positive limit.
const DefaultHistoryLimit = 20

// BookmarkService manages saved and recent locations.
type BookmarkService struct {
	bookmarks driven.BookmarkStore
	history   driven.LocationStore
	clock     func() time.Time
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(bookmarks driven.BookmarkStore, history driven.LocationStore) *BookmarkService {
	return &BookmarkService{
		bookmarks: bookmarks,
		history:   history,
		clock:     time.Now,
	}
}

// Save stores the query under name, replacing an existing bookmark.
func (s *BookmarkService) Save(ctx context.Context, name string, query domain.QueryParameterSet) (*domain.Bookmark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: bookmark name is required", domain.ErrInvalidInput)
	}

	b := domain.Bookmark{
		ID:        uuid.NewString(),
		Name:      name,
		Query:     query.Clone(),
		CreatedAt: s.clock(),
	}
	if existing, err := s.bookmarks.GetBookmark(ctx, name); err == nil {
		b.ID = existing.ID
	}
	if err := s.bookmarks.SaveBookmark(ctx, b); err != nil {
		return nil, fmt.Errorf("save bookmark %q: %w", name, err)
	}
	return &b, nil
}

// List returns all bookmarks.
func (s *BookmarkService) List(ctx context.Context) ([]domain.Bookmark, error) {
	return s.bookmarks.ListBookmarks(ctx)
}

// Get returns a bookmark by name.
func (s *BookmarkService) Get(ctx context.Context, name string) (*domain.Bookmark, error) {
	b, err := s.bookmarks.GetBookmark(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("get bookmark %q: %w", name, err)
	}
	return b, nil
}

// Remove deletes a bookmark by name.
func (s *BookmarkService) Remove(ctx context.Context, name string) error {
	if err := s.bookmarks.DeleteBookmark(ctx, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("remove bookmark %q: %w", name, err)
	}
	return nil
}

// History returns up to limit recent locations, newest first.
func (s *BookmarkService) History(ctx context.Context, limit int) ([]domain.Location, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.history.RecentLocations(ctx, limit)
}
