package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched catalog stays fresh.
const DefaultTTL = 5 * time.Minute

// cached pairs the catalog value with its fetch timestamp. The value is
// replaced atomically under mu; readers never see a partial update.
type cached struct {
	items     []Item
	fetchedAt time.Time
}

// Cache serves the catalog with a lazy-refresh, stale-read policy: a fresh
// value is served directly; past the TTL, at most one refresh runs at a time
// while other callers keep reading the stale value; a failed refresh leaves
// the previous value untouched.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	value *cached

	group singleflight.Group
}

// NewCache builds a Cache over the fetcher. ttl <= 0 falls back to
// DefaultTTL.
func NewCache(fetcher Fetcher, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{fetcher: fetcher, ttl: ttl, logger: logger, now: time.Now}
}

// WithNow overrides the clock for testing.
func (c *Cache) WithNow(fn func() time.Time) {
	if fn != nil {
		c.now = fn
	}
}

// Get returns the catalog, refreshing when stale. The very first call
// blocks on the fetch; afterwards a refresh failure degrades to the stale
// value instead of an error.
func (c *Cache) Get(ctx context.Context) ([]Item, error) {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	if value != nil && c.now().Sub(value.fetchedAt) <= c.ttl {
		return value.items, nil
	}

	items, err, _ := c.refresh(ctx)
	if err == nil {
		return items, nil
	}
	if value != nil {
		c.logger.Warn("catalog refresh failed, serving stale value",
			slog.Time("fetched_at", value.fetchedAt), slog.Any("error", err))
		return value.items, nil
	}
	return nil, err
}

// refresh runs the upstream fetch through singleflight so concurrent stale
// reads trigger at most one in-flight refresh.
func (c *Cache) refresh(ctx context.Context) ([]Item, error, bool) {
	result, err, shared := c.group.Do("catalog", func() (interface{}, error) {
		items, err := c.fetcher.FetchCatalog(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.value = &cached{items: items, fetchedAt: c.now()}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err, shared
	}
	return result.([]Item), nil, shared
}
