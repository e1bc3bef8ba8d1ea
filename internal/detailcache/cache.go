// Package detailcache memoises per-entity supplementary records (outreach
// history, activity history) so expanding and collapsing a row does not
// refetch them.
package detailcache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"hiring/sourcing-service/internal/metrics"
)

// Loader fetches the records of one entity.
type Loader[K comparable, V any] func(ctx context.Context, id K) ([]V, error)

// Cache is a read-through cache keyed by entity id. Entries live until
// Invalidate or Reset; a fetched empty result is stored like any other.
// Concurrent Gets for the same missing id share one load.
type Cache[K comparable, V any] struct {
	name   string
	load   Loader[K, V]
	group  singleflight.Group
	mu     sync.RWMutex
	items  map[K][]V
	epochs map[K]uint64
	gen    uint64
}

// New returns an empty Cache. name labels its metrics.
func New[K comparable, V any](name string, load Loader[K, V]) *Cache[K, V] {
	return &Cache[K, V]{
		name:   name,
		load:   load,
		items:  make(map[K][]V),
		epochs: make(map[K]uint64),
	}
}

// Get returns the records for id, loading them on first use. Load errors are
// returned and not cached.
func (c *Cache[K, V]) Get(ctx context.Context, id K) ([]V, error) {
	c.mu.RLock()
	v, ok := c.items[id]
	epoch, gen := c.epochs[id], c.gen
	c.mu.RUnlock()
	if ok {
		metrics.DetailCacheLookups.WithLabelValues(c.name, "hit").Inc()
		return v, nil
	}
	metrics.DetailCacheLookups.WithLabelValues(c.name, "miss").Inc()

	res, err, _ := c.group.Do(fmt.Sprint(id), func() (any, error) {
		records, err := c.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []V{}
		}
		c.mu.Lock()
		// an Invalidate that raced the load wins; keep the result out
		if c.epochs[id] == epoch && c.gen == gen {
			c.items[id] = records
		}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]V), nil
}

// Cached reports whether id has a stored entry.
func (c *Cache[K, V]) Cached(id K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

// Invalidate drops the entry for id so the next Get refetches it.
func (c *Cache[K, V]) Invalidate(id K) {
	c.mu.Lock()
	delete(c.items, id)
	c.epochs[id]++
	c.mu.Unlock()
	c.group.Forget(fmt.Sprint(id))
}

// Reset drops every entry.
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	c.items = make(map[K][]V)
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
