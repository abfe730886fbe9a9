package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
)

// Ensure LocationStore implements the interface.
var _ driven.LocationStore = (*LocationStore)(nil)

// LocationStore is an in-memory implementation of driven.LocationStore.
type LocationStore struct {
	mu        sync.RWMutex
	locations []domain.Location
}

// NewLocationStore creates an empty in-memory location history.
func NewLocationStore() *LocationStore {
	return &LocationStore{}
}

// RecordLocation appends a location to the history.
func (s *LocationStore) RecordLocation(_ context.Context, loc domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc.Query = loc.Query.Clone()
	s.locations = append(s.locations, loc)
	return nil
}

// RecentLocations returns up to limit locations, newest first.
func (s *LocationStore) RecentLocations(_ context.Context, limit int) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Location, 0, min(limit, len(s.locations)))
	for i := len(s.locations) - 1; i >= 0 && len(result) < limit; i-- {
		loc := s.locations[i]
		loc.Query = loc.Query.Clone()
		result = append(result, loc)
	}
	return result, nil
}

// LatestLocation returns the most recent location.
func (s *LocationStore) LatestLocation(_ context.Context) (*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.locations) == 0 {
		return nil, domain.ErrNotFound
	}
	loc := s.locations[len(s.locations)-1]
	loc.Query = loc.Query.Clone()
	return &loc, nil
}
