package services

import "sync"

// Lifetime collects teardown functions for a component and runs them once
// when the component is destroyed.
type Lifetime struct {
	mu       sync.Mutex
	closed   bool
	done     chan struct{}
	teardown []func()
}

// NewLifetime creates an open lifetime.
func NewLifetime() *Lifetime {
	return &Lifetime{done: make(chan struct{})}
}

// Add registers fn to run on Close. If the lifetime is already closed,
// fn runs immediately.
func (l *Lifetime) Add(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		fn()
		return
	}
	l.teardown = append(l.teardown, fn)
	l.mu.Unlock()
}

// Close runs every registered function in reverse order. Later calls are no-ops.
func (l *Lifetime) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	fns := l.teardown
	l.teardown = nil
	close(l.done)
	l.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Done is closed when the lifetime ends.
func (l *Lifetime) Done() <-chan struct{} {
	return l.done
}

// Closed reports whether Close has been called.
func (l *Lifetime) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
