package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// Ensure Router implements the interface.
var _ driving.Router = (*Router)(nil)

// Router owns the current catalog location and records it in the history.
type Router struct {
	mu      sync.Mutex
	current domain.QueryParameterSet
	changes *Subject[domain.QueryParameterSet]
	history driven.LocationStore
	clock   func() time.Time
}

// NewRouter creates a router positioned at initial.
// history may be nil, in which case nothing is recorded.
func NewRouter(history driven.LocationStore, initial domain.QueryParameterSet) *Router {
	if initial == nil {
		initial = domain.NewQueryParameterSet()
	}
	initial = initial.Clone()
	return &Router{
		current: initial,
		changes: NewBehaviorSubject(initial.Clone()),
		history: history,
		clock:   time.Now,
	}
}

// Current returns a copy of the current location parameters.
func (r *Router) Current() domain.QueryParameterSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Clone()
}

// Navigate moves to a new location and returns it.
func (r *Router) Navigate(
	ctx context.Context,
	params domain.QueryParameterSet,
	opts driving.NavigateOptions,
) domain.QueryParameterSet {
	r.mu.Lock()
	next := params.Clone()
	if opts.Merge {
		next = r.current.Merge(params)
	}
	if next.Equal(r.current) {
		r.mu.Unlock()
		return next
	}
	r.current = next
	r.mu.Unlock()

	logger.Debug("navigate %s", next)
	r.record(ctx, next)
	r.changes.Publish(next.Clone())
	return next.Clone()
}

// Subscribe receives the current location and every later change.
func (r *Router) Subscribe(fn func(domain.QueryParameterSet)) func() {
	return r.changes.Subscribe(func(q domain.QueryParameterSet) {
		fn(q.Clone())
	})
}

// Restore navigates to the most recently recorded location.
func (r *Router) Restore(ctx context.Context) (domain.QueryParameterSet, error) {
	if r.history == nil {
		return nil, fmt.Errorf("restore location: %w", domain.ErrNotFound)
	}
	loc, err := r.history.LatestLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore location: %w", err)
	}
	return r.Navigate(ctx, loc.Query, driving.NavigateOptions{}), nil
}

// record appends the location to the history. Failures are logged only.
func (r *Router) record(ctx context.Context, q domain.QueryParameterSet) {
	if r.history == nil {
		return
	}
	loc := domain.Location{Query: q.Clone(), VisitedAt: r.clock()}
	if err := r.history.RecordLocation(ctx, loc); err != nil {
		logger.Warn("record location: %v", err)
	}
}
