package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubFetcher struct {
	mu    sync.Mutex
	items []Item
	err   error
	calls int32
	delay time.Duration
}

func (s *stubFetcher) FetchCatalog(ctx context.Context) ([]Item, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items, s.err
}

func (s *stubFetcher) set(items []Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.err = err
}

func TestCacheServesFreshValue(t *testing.T) {
	fetcher := &stubFetcher{items: []Item{{Business: "tienda_centro", Product: "Camisa", Price: 25}}}
	cache := NewCache(fetcher, time.Minute, nil)

	ctx := context.Background()
	items, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Product != "Camisa" {
		t.Fatalf("unexpected items: %+v", items)
	}

	// Within the TTL the fetcher is not consulted again.
	if _, err := cache.Get(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&fetcher.calls); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	fetcher := &stubFetcher{items: []Item{{Product: "Camisa"}}}
	cache := NewCache(fetcher, time.Minute, nil)

	current := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.WithNow(func() time.Time { return current })

	ctx := context.Background()
	if _, err := cache.Get(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher.set([]Item{{Product: "Pantalón"}}, nil)
	current = current.Add(2 * time.Minute)

	items, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Product != "Pantalón" {
		t.Fatalf("expected refreshed catalog, got %+v", items)
	}
	if got := atomic.LoadInt32(&fetcher.calls); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestCacheServesStaleOnRefreshFailure(t *testing.T) {
	fetcher := &stubFetcher{items: []Item{{Product: "Camisa"}}}
	cache := NewCache(fetcher, time.Minute, nil)

	current := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.WithNow(func() time.Time { return current })

	ctx := context.Background()
	if _, err := cache.Get(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher.set(nil, errors.New("backend down"))
	current = current.Add(2 * time.Minute)

	items, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("expected stale value, got error %v", err)
	}
	if len(items) != 1 || items[0].Product != "Camisa" {
		t.Fatalf("expected stale catalog, got %+v", items)
	}
}

func TestCacheFirstFetchFailurePropagates(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("backend down")}
	cache := NewCache(fetcher, time.Minute, nil)

	if _, err := cache.Get(context.Background()); err == nil {
		t.Fatalf("expected error with no prior value")
	}
}

func TestCacheSingleRefreshUnderLoad(t *testing.T) {
	fetcher := &stubFetcher{items: []Item{{Product: "Camisa"}}, delay: 20 * time.Millisecond}
	cache := NewCache(fetcher, time.Minute, nil)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(ctx); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&fetcher.calls); got != 1 {
		t.Fatalf("expected a single shared fetch, got %d", got)
	}
}
