// Package cache provides a keyed TTL memoizer used to avoid re-parsing the
// presence sources on every request.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memoizer caches the result of a compute function per key until the entry's
// TTL elapses. Entries are only ever overwritten on recompute; nothing is
// evicted, so the map grows with the number of distinct keys.
//
// A single mutex serializes the whole check-compute-store sequence, so
// concurrent callers of the same key trigger exactly one compute per expiry
// and never observe a half-written entry.
type Memoizer[K comparable, V any] struct {
	mu      sync.Mutex
	compute func(context.Context, K) (V, error)
	ttl     time.Duration
	now     func() time.Time
	entries map[K]entry[V]
}

// New creates a memoizer around compute. A nil now falls back to time.Now;
// tests inject a fixed clock to advance time deterministically.
func New[K comparable, V any](
	compute func(context.Context, K) (V, error),
	ttl time.Duration,
	now func() time.Time,
) *Memoizer[K, V] {
	if now == nil {
		now = time.Now
	}
	return &Memoizer[K, V]{
		compute: compute,
		ttl:     ttl,
		now:     now,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the cached value for key, computing and storing it first when
// no live entry exists. Compute errors are returned as-is and never cached.
func (m *Memoizer[K, V]) Get(ctx context.Context, key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok && m.now().Before(e.expiresAt) {
		return e.value, nil
	}

	value, err := m.compute(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	m.entries[key] = entry[V]{value: value, expiresAt: m.now().Add(m.ttl)}
	return value, nil
}

// Flush drops every cached entry.
func (m *Memoizer[K, V]) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[K]entry[V])
}
