// Package kv provides a generic thread-safe key-value store.
package kv

import "sync"

// Store is a thread-safe generic key-value store.
type Store[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// New creates a new key-value store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		data: make(map[K]V),
	}
}

// Get retrieves a value by key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// Compute atomically replaces the value stored under key with the result of
// fn. fn receives the current value and whether it exists; returning
// store=false leaves the entry untouched.
func (s *Store[K, V]) Compute(key K, fn func(cur V, ok bool) (next V, store bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[key]
	next, store := fn(cur, ok)
	if store {
		s.data[key] = next
	}
	return store
}

// DeleteIf removes key only when match returns true for its current value.
func (s *Store[K, V]) DeleteIf(key K, match func(V) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[key]
	if !ok || !match(cur) {
		return false
	}
	delete(s.data, key)
	return true
}

// Len returns the number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
