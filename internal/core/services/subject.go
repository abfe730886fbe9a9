package services

import (
	"slices"
	"sync"
)

// Subject broadcasts values to subscribers in subscription order.
// Delivery happens on the publishing goroutine outside the subject's lock,
// so subscribers may publish or unsubscribe.
//
// Every value carries a version and each subscriber receives versions in
// increasing order, one call at a time. A value published while the
// subscriber is already being called is queued and handed over by that
// call once it returns. A value older than one the subscriber already
// received is dropped, so a replay racing a publish cannot go backwards.
type Subject[T any] struct {
	mu      sync.Mutex
	replay  bool
	has     bool
	value   T
	version uint64
	nextID  int
	subs    []*subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)

	mu      sync.Mutex
	seen    uint64
	busy    bool
	removed bool
	pending []versioned[T]
}

type versioned[T any] struct {
	value   T
	version uint64
}

// NewSubject returns a subject that only delivers values published after
// subscription.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// NewReplaySubject returns a subject that hands the latest published value
// to new subscribers.
func NewReplaySubject[T any]() *Subject[T] {
	return &Subject[T]{replay: true}
}

// NewBehaviorSubject returns a replaying subject seeded with initial.
func NewBehaviorSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{replay: true, has: true, value: initial, version: 1}
}

// Publish stores v and delivers it to every current subscriber.
func (s *Subject[T]) Publish(v T) {
	s.Update(func(T) T { return v })
}

// Update replaces the latest value with fn applied to it and delivers the
// result. Reading and storing happen under one lock, so concurrent updates
// and publishes never lose each other's writes.
func (s *Subject[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	v := fn(s.value)
	s.value = v
	s.has = true
	s.version++
	version := s.version
	subs := make([]*subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if s.active(sub.id) {
			sub.deliver(v, version)
		}
	}
	return v
}

// Value returns the latest published value.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Subscribe registers fn and returns a function that removes it.
// Replaying subjects deliver the latest value to fn before returning,
// unless a newer value reached fn first.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	s.nextID++
	sub := &subscriber[T]{id: s.nextID, fn: fn}
	s.subs = append(s.subs, sub)
	replay, has, v, version := s.replay, s.has, s.value, s.version
	s.mu.Unlock()

	if replay && has {
		sub.deliver(v, version)
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(sub.id) })
	}
}

// Len returns the number of subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// deliver hands v to the subscriber unless it already saw a newer version.
// It reports false when v was dropped as stale. The callback runs without
// the guard held so it may publish re-entrantly.
func (sub *subscriber[T]) deliver(v T, version uint64) bool {
	sub.mu.Lock()
	if sub.removed || version <= sub.seen {
		sub.mu.Unlock()
		return false
	}

	i := len(sub.pending)
	for i > 0 && sub.pending[i-1].version > version {
		i--
	}
	sub.pending = slices.Insert(sub.pending, i, versioned[T]{value: v, version: version})
	if sub.busy {
		sub.mu.Unlock()
		return true
	}

	sub.busy = true
	for len(sub.pending) > 0 {
		next := sub.pending[0]
		sub.pending = sub.pending[1:]
		if sub.removed || next.version <= sub.seen {
			continue
		}
		sub.seen = next.version
		sub.mu.Unlock()
		sub.fn(next.value)
		sub.mu.Lock()
	}
	sub.busy = false
	sub.mu.Unlock()
	return true
}

func (s *Subject[T]) active(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (s *Subject[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			sub.mu.Lock()
			sub.removed = true
			sub.pending = nil
			sub.mu.Unlock()
			return
		}
	}
}
