package source

import (
	"context"
	"time"

	"github.com/mikey/presence-analyzer/internal/cache"
	"github.com/mikey/presence-analyzer/internal/core"
)

// cachedPresence memoizes another presence source so repeated loads within
// the TTL window reuse the same parsed index.
type cachedPresence struct {
	memo *cache.Memoizer[string, core.PresenceIndex]
	key  string
}

// NewCachedPresence wraps delegate with TTL memoization. The key identifies
// the underlying source, typically its file path. A nil now falls back to
// the wall clock.
func NewCachedPresence(
	delegate core.PresenceSource,
	key string,
	ttl time.Duration,
	now func() time.Time,
) core.PresenceSource {
	memo := cache.New(func(ctx context.Context, _ string) (core.PresenceIndex, error) {
		return delegate.Load(ctx)
	}, ttl, now)
	return &cachedPresence{memo: memo, key: key}
}

// Load returns the cached index, re-parsing the source only after the TTL
// has elapsed.
func (s *cachedPresence) Load(ctx context.Context) (core.PresenceIndex, error) {
	return s.memo.Get(ctx, s.key)
}
