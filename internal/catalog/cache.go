package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CacheTTL is how long listings stay fresh.
const CacheTTL = 5 * time.Minute

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// Cached wraps a Source and memoizes banners, categories, product listings
// and product lookups. Search always goes to the wrapped source.
type Cached struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCached wraps src. A non-positive ttl selects CacheTTL.
func NewCached(src Source, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = CacheTTL
	}
	return &Cached{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Invalidate drops every entry.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *Cached) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cached) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, fetchedAt: c.now()}
}

// cached serves key from the cache or calls fetch and stores a successful
// result. Errors are never cached.
func cached[T any](c *Cached, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		return v.(T), nil
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.set(key, v)
	return v, nil
}

func (c *Cached) Banners(ctx context.Context) ([]Banner, error) {
	return cached(c, "banners", func() ([]Banner, error) { return c.src.Banners(ctx) })
}

func (c *Cached) Categories(ctx context.Context) ([]Category, error) {
	return cached(c, "categories", func() ([]Category, error) { return c.src.Categories(ctx) })
}

func (c *Cached) Products(ctx context.Context, query ProductQuery) ([]Product, error) {
	key := fmt.Sprintf("products|%d|%s|%s", query.Limit, query.Category, query.Search)
	return cached(c, key, func() ([]Product, error) { return c.src.Products(ctx, query) })
}

func (c *Cached) Product(ctx context.Context, key string) (Product, error) {
	return cached(c, "product|"+key, func() (Product, error) { return c.src.Product(ctx, key) })
}

func (c *Cached) Search(ctx context.Context, query string) ([]Suggestion, error) {
	return c.src.Search(ctx, query)
}
