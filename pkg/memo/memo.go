// Package memo provides in-process, compute-once memoization for derived
// metadata views.
//
// Every cache lives on a value owned by its caller (typically a
// stubs.Collection) rather than in package globals, so tests can construct
// isolated instances with different package sets. Entries live for the
// lifetime of the owning value and are never invalidated.
//
// Only successful results are stored. A computation that returns an error
// leaves no entry behind, so the next call retries; validation failures are
// fatal to the query that triggered them, not to the cache.
package memo

import "sync"

// Map memoizes the results of a keyed computation.
//
// The zero value is not usable; use NewMap.
type Map[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
}

// NewMap creates an empty memoization map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{entries: make(map[K]V)}
}

// Do returns the cached value for key, computing it with fn on first use.
//
// The lock is not held while fn runs, so fn may call Do recursively on the
// same Map with other keys. Two goroutines racing on an uncached key may both
// run fn; the first result stored wins and the duplicate work is discarded.
// Recomputation is idempotent for all callers in this module, so the
// occasional duplicate is cheaper than per-key locking.
func (m *Map[K, V]) Do(key K, fn func() (V, error)) (V, error) {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[key]; ok {
		return prev, nil
	}
	m.entries[key] = v
	return v, nil
}

// Get returns the cached value for key without computing anything.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of cached entries.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Once memoizes a single parameterless computation.
//
// Like Map, only a successful result is stored; a failed computation is
// retried on the next call.
type Once[V any] struct {
	mu   sync.Mutex
	done bool
	val  V
}

// Do returns the stored value, computing it with fn on first use.
// The lock is held while fn runs, so fn must not call Do on the same Once.
func (o *Once[V]) Do(fn func() (V, error)) (V, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return o.val, nil
	}
	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	o.val = v
	o.done = true
	return v, nil
}
