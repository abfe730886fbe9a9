package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
)

// Ensure BookmarkStore implements the interface.
var _ driven.BookmarkStore = (*BookmarkStore)(nil)

// BookmarkStore is an in-memory implementation of driven.BookmarkStore.
type BookmarkStore struct {
	mu        sync.RWMutex
	bookmarks map[string]domain.Bookmark
}

// NewBookmarkStore creates a new in-memory bookmark store.
func NewBookmarkStore() *BookmarkStore {
	return &BookmarkStore{
		bookmarks: make(map[string]domain.Bookmark),
	}
}

// SaveBookmark stores or replaces a bookmark by name.
func (s *BookmarkStore) SaveBookmark(_ context.Context, b domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.Query = b.Query.Clone()
	s.bookmarks[b.Name] = b
	return nil
}

// GetBookmark retrieves a bookmark by name.
func (s *BookmarkStore) GetBookmark(_ context.Context, name string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookmarks[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.Query = b.Query.Clone()
	return &b, nil
}

// ListBookmarks returns all bookmarks sorted by name.
func (s *BookmarkStore) ListBookmarks(_ context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		b.Query = b.Query.Clone()
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// DeleteBookmark removes a bookmark by name.
func (s *BookmarkStore) DeleteBookmark(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookmarks[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bookmarks, name)
	return nil
}
