package cross

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"
)

// searchCache is an LRU cache with TTL for ruling search results.
type searchCache struct {
	capacity   int
	defaultTTL time.Duration
	mu         sync.Mutex

	entries map[string]*cacheEntry
	order   *list.List
}

type cacheEntry struct {
	key       string
	rulings   []Ruling
	expiresAt time.Time
	element   *list.Element
}

func newSearchCache(capacity int, defaultTTL time.Duration) *searchCache {
	if capacity <= 0 {
		capacity = 256
	}
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &searchCache{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*cacheEntry),
		order:      list.New(),
	}
}

func (c *searchCache) get(key string) ([]Ruling, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		return nil, false
	}
	c.order.MoveToFront(e.element)
	return e.rulings, true
}

func (c *searchCache) set(key string, rulings []Ruling) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.rulings = rulings
		e.expiresAt = time.Now().Add(c.defaultTTL)
		c.order.MoveToFront(e.element)
		return
	}

	if len(c.entries) >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeEntry(oldest.Value.(*cacheEntry))
		}
	}

	e := &cacheEntry{
		key:       key,
		rulings:   rulings,
		expiresAt: time.Now().Add(c.defaultTTL),
	}
	e.element = c.order.PushFront(e)
	c.entries[key] = e
}

func (c *searchCache) removeEntry(e *cacheEntry) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}

// cachingGateway memoizes Search calls on the wrapped gateway. Errors are
// never cached; a failed lookup is retried on the next request.
type cachingGateway struct {
	next  Gateway
	cache *searchCache
}

// NewCachingGateway wraps next with an LRU+TTL result cache.
func NewCachingGateway(next Gateway, capacity int, ttl time.Duration) Gateway {
	return &cachingGateway{
		next:  next,
		cache: newSearchCache(capacity, ttl),
	}
}

func (g *cachingGateway) Search(ctx context.Context, term string, opts SearchOptions) ([]Ruling, error) {
	opts = opts.withDefaults()
	key := fmt.Sprintf("%s|%d|%d|%s|%s", term, opts.PageSize, opts.Page, opts.Collection, opts.SortBy)

	if rulings, ok := g.cache.get(key); ok {
		return rulings, nil
	}

	rulings, err := g.next.Search(ctx, term, opts)
	if err != nil {
		return nil, err
	}
	g.cache.set(key, rulings)
	return rulings, nil
}
