package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "analytics:version"
	bumpChannel     = "analytics.bump"
)

// Cache wraps Redis based report caching with versioning controls. The
// version lets the sales backend invalidate every cached report with a
// single publish instead of tracking per-tenant keys.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client degrades to
// pass-through loading.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// ReportKey composes the versioned cache key for a tenant report.
func (c *Cache) ReportKey(ctx context.Context, tenant string) (string, error) {
	base := strings.Join([]string{"analytics", "report", tenant}, ":")
	if c == nil || c.client == nil {
		return base, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return base + ":" + strconv.FormatInt(ver, 10), nil
}

// FetchReport loads a cached report or populates it using the loader.
func (c *Cache) FetchReport(ctx context.Context, key string, loader func(context.Context) (*Report, error)) (*Report, error) {
	if loader == nil {
		return nil, errors.New("analytics: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var report Report
		if unmarshalErr := json.Unmarshal(payload, &report); unmarshalErr == nil {
			return &report, nil
		}
		// Corrupt entry, fall through and recompute.
	} else if err != redis.Nil {
		return nil, err
	}
	report, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// Bump invalidates every cached report by incrementing the global version
// and publishing the new value.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// ListenForInvalidation subscribes to version bump notifications published
// by the sales backend after writes.
func (c *Cache) ListenForInvalidation(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	pubsub := c.client.Subscribe(ctx, bumpChannel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Payload != "" {
					if ver, err := strconv.ParseInt(msg.Payload, 10, 64); err == nil {
						_ = c.client.Set(ctx, cacheVersionKey, ver, 0).Err()
						continue
					}
				}
				_ = c.client.Incr(ctx, cacheVersionKey).Err()
			}
		}
	}()
	return nil
}
