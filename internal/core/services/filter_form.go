package services

import (
	"sync"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Ensure FilterForm implements the interface.
var _ driving.FilterForm = (*FilterForm)(nil)

// FilterForm holds the filter values edited by the user.
// Subscribers are notified of user edits only; patches made without
// emitting are silent.
type FilterForm struct {
	mu      sync.Mutex
	value   domain.FilterState
	changes *Subject[domain.FilterState]
}

// NewFilterForm creates a form holding the default filter values.
func NewFilterForm() *FilterForm {
	return &FilterForm{
		value:   domain.DefaultFilterState(),
		changes: NewSubject[domain.FilterState](),
	}
}

// Value returns a copy of the current values.
func (f *FilterForm) Value() domain.FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value.Clone()
}

// SetValue replaces the values and notifies subscribers.
func (f *FilterForm) SetValue(state domain.FilterState) {
	f.Patch(state, true)
}

// Patch replaces the values, notifying subscribers only when emit is set.
func (f *FilterForm) Patch(state domain.FilterState, emit bool) {
	state = state.Clone()
	state.TemplateIDs = domain.NormalizeTemplateIDs(state.TemplateIDs)

	f.mu.Lock()
	f.value = state
	f.mu.Unlock()

	if emit {
		f.changes.Publish(state.Clone())
	}
}

// Update applies fn to a copy of the current values and emits the result.
func (f *FilterForm) Update(fn func(*domain.FilterState)) {
	state := f.Value()
	fn(&state)
	f.SetValue(state)
}

// Reset restores the default values and notifies subscribers.
func (f *FilterForm) Reset() {
	f.SetValue(domain.DefaultFilterState())
}

// Subscribe receives every emitted edit.
func (f *FilterForm) Subscribe(fn func(domain.FilterState)) func() {
	return f.changes.Subscribe(fn)
}
