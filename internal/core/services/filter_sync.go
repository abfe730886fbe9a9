package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// Ensure FilterSynchronizer implements the interface.
var _ driving.FilterSync = (*FilterSynchronizer)(nil)

// SyncConfig configures a FilterSynchronizer.
type SyncConfig struct {
	// PageSize is sent as perPage with every fetch.
	PageSize int

	// Debounce is the quiet period before a form edit is applied.
	Debounce time.Duration
}

// DefaultSyncConfig returns the default page size and debounce window.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		PageSize: domain.DefaultPageSize,
		Debounce: domain.DefaultDebounce,
	}
}

type syncState int

const (
	syncIdle syncState = iota
	syncRunning
	syncStopped
)

// FilterSynchronizer keeps the filter form, the location and the catalog
// consistent.
//
// On Start it reads the location once, patches the form silently and
// fetches the first page. Only then does it follow changes: location
// changes re-patch the form silently, and form edits are debounced,
// merged into the location with page reset to 1, and fetched.
type FilterSynchronizer struct {
	form    *FilterForm
	router  driving.Router
	catalog driving.CatalogService
	cfg     SyncConfig

	mu       sync.Mutex
	state    syncState
	ctx      context.Context
	debounce *Debouncer
	lifetime *Lifetime
	errors   *Subject[error]
}

// NewFilterSynchronizer creates a synchronizer. Zero config fields take defaults.
func NewFilterSynchronizer(
	form *FilterForm,
	router driving.Router,
	catalog driving.CatalogService,
	cfg SyncConfig,
) *FilterSynchronizer {
	defaults := DefaultSyncConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaults.Debounce
	}
	return &FilterSynchronizer{
		form:     form,
		router:   router,
		catalog:  catalog,
		cfg:      cfg,
		debounce: NewDebouncer(cfg.Debounce),
		lifetime: NewLifetime(),
		errors:   NewSubject[error](),
	}
}

// Form returns the synchronized filter form.
func (s *FilterSynchronizer) Form() *FilterForm {
	return s.form
}

// Start performs the initial load and begins following changes.
// A failed initial fetch is returned, but the synchronizer keeps running.
func (s *FilterSynchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case syncRunning:
		s.mu.Unlock()
		return domain.ErrAlreadyStarted
	case syncStopped:
		s.mu.Unlock()
		return domain.ErrStopped
	}
	s.state = syncRunning
	s.ctx = ctx
	s.mu.Unlock()

	logger.Section("Filter sync")

	// Read the location exactly once for initialisation.
	location := s.router.Current()
	s.form.Patch(domain.ParseQueryParams(location), false)

	params := domain.BuildQueryParams(s.form.Value())
	if location.Has(domain.ParamPage) {
		params.Set(domain.ParamPage, location.Get(domain.ParamPage))
	}
	params.SetInt(domain.ParamPerPage, s.pageSize())
	initErr := s.load(ctx, params)

	s.lifetime.Add(s.router.Subscribe(func(q domain.QueryParameterSet) {
		s.form.Patch(domain.ParseQueryParams(q), false)
	}))
	s.lifetime.Add(s.form.Subscribe(func(f domain.FilterState) {
		s.debounce.Trigger(func() { s.apply(f) })
	}))
	s.lifetime.Add(s.debounce.Stop)

	return initErr
}

// Stop releases every subscription and drops any pending edit.
// Fetches already in flight complete, but nobody reacts to them here.
func (s *FilterSynchronizer) Stop() {
	s.mu.Lock()
	s.state = syncStopped
	s.mu.Unlock()
	s.lifetime.Close()
}

// Flush applies a pending debounced edit immediately.
func (s *FilterSynchronizer) Flush() {
	s.debounce.Flush()
}

// SetPageSize changes the perPage sent with later fetches.
func (s *FilterSynchronizer) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	s.cfg.PageSize = size
	s.mu.Unlock()
}

func (s *FilterSynchronizer) pageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.PageSize
}

// SubscribeErrors receives fetch failures.
func (s *FilterSynchronizer) SubscribeErrors(fn func(error)) func() {
	return s.errors.Subscribe(fn)
}

// apply navigates to the edited filters and fetches the first page.
// The fetch uses the built parameters, not the merged location.
func (s *FilterSynchronizer) apply(f domain.FilterState) {
	s.mu.Lock()
	ctx, running, size := s.ctx, s.state == syncRunning, s.cfg.PageSize
	s.mu.Unlock()
	if !running {
		return
	}

	params := domain.BuildQueryParams(f)
	params.Set(domain.ParamPage, "1")
	params.SetInt(domain.ParamPerPage, size)

	s.router.Navigate(ctx, params, driving.NavigateOptions{Merge: true})
	_ = s.load(ctx, params) //nolint:errcheck // reported through SubscribeErrors
}

func (s *FilterSynchronizer) load(ctx context.Context, params domain.QueryParameterSet) error {
	if _, err := s.catalog.LoadPage(ctx, params); err != nil {
		logger.Warn("filter sync fetch failed: %v", err)
		s.errors.Publish(err)
		return err
	}
	return nil
}
