package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carevillage/admin-api/internal/api/metrics"
)

const defaultPageTTL = 30 * time.Second

// PageCache stores serialised list pages per resource.
//
// Keys are versioned by a per-resource generation counter:
//
//	cv:gen:<resource>                  -> generation (INCR on every write)
//	cv:list:<resource>:<gen>:<query>   -> JSON page (expires after ttl)
//
// Invalidation only bumps the generation, so stale pages become unreachable
// at once and are left to expire.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache wraps client. A non-positive ttl falls back to defaultPageTTL.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = defaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Load decodes the cached page for (resource, key) into dst. It also returns
// the generation it looked under; Store must be given that value so a page
// read before a concurrent write lands under a generation that is already
// retired.
func (c *PageCache) Load(ctx context.Context, resource, key string, dst any) (int64, bool, error) {
	gen, hit, err := c.load(ctx, resource, key, dst)
	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case hit:
		result = "hit"
	}
	metrics.PageCacheLookupsTotal.WithLabelValues(resource, result).Inc()
	return gen, hit, err
}

func (c *PageCache) load(ctx context.Context, resource, key string, dst any) (int64, bool, error) {
	gen, err := c.generation(ctx, resource)
	if err != nil {
		return 0, false, err
	}

	raw, err := c.client.Get(ctx, pageKey(resource, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, fmt.Errorf("page cache load: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return gen, false, fmt.Errorf("page cache decode: %w", err)
	}
	return gen, true, nil
}

// Store saves page under generation gen as returned by Load.
func (c *PageCache) Store(ctx context.Context, resource, key string, gen int64, page any) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("page cache encode: %w", err)
	}
	if err := c.client.Set(ctx, pageKey(resource, gen, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("page cache store: %w", err)
	}
	return nil
}

func (c *PageCache) Invalidate(ctx context.Context, resource string) error {
	if err := c.client.Incr(ctx, genKey(resource)).Err(); err != nil {
		return fmt.Errorf("page cache invalidate: %w", err)
	}
	return nil
}

func (c *PageCache) generation(ctx context.Context, resource string) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("page cache generation: %w", err)
	}
	return gen, nil
}

func genKey(resource string) string {
	return "cv:gen:" + resource
}

func pageKey(resource string, gen int64, key string) string {
	return fmt.Sprintf("cv:list:%s:%d:%s", resource, gen, key)
}
