// Package store provides lookup caching using an LRU cache and Bloom filters.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrMissing is returned for keys the backend already reported as missing.
var ErrMissing = errors.New("key known to be missing")

// Stats counts cache outcomes since creation.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Negatives uint64
}

// LookupCache is a thread-safe cache of catalog lookups. Found values live in
// an LRU cache. Keys the backend reported as missing are remembered in a
// Bloom filter backed by a bounded set, so repeated lookups of unknown IDs
// never reach the backend.
type LookupCache[V any] struct {
	values                 *lru.Cache[string, V]
	missing                *lru.Cache[string, struct{}]
	bloom                  *bloom.BloomFilter
	mutex                  sync.RWMutex
	maxEntries             int
	bloomFalsePositiveRate float64
	stats                  Stats
}

// NewLookupCache creates a cache holding up to maxEntries values and as many
// missing keys.
func NewLookupCache[V any](maxEntries int, bloomFalsePositiveRate float64) *LookupCache[V] {
	if maxEntries <= 0 || maxEntries > int(^uint(0)>>1) {
		panic("maxEntries value out of range for uint conversion")
	}

	values, _ := lru.New[string, V](maxEntries)
	missing, _ := lru.New[string, struct{}](maxEntries)

	return &LookupCache[V]{
		values:                 values,
		missing:                missing,
		bloom:                  bloom.NewWithEstimates(uint(maxEntries), bloomFalsePositiveRate),
		maxEntries:             maxEntries,
		bloomFalsePositiveRate: bloomFalsePositiveRate,
	}
}

// Get returns the cached value for key.
func (c *LookupCache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	value, ok := c.values.Get(key)
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return value, ok
}

// Put stores a found value and forgets any earlier missing mark.
func (c *LookupCache[V]) Put(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.values.Add(key, value)
	c.missing.Remove(key)
}

// MarkMissing remembers that the backend has no value for key.
func (c *LookupCache[V]) MarkMissing(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.values.Remove(key)
	c.missing.Add(key, struct{}{})
	c.bloom.AddString(key)
}

// IsMissing reports whether key was marked missing and not evicted since.
func (c *LookupCache[V]) IsMissing(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.isMissing(key)
}

func (c *LookupCache[V]) isMissing(key string) bool {
	if !c.bloom.TestString(key) {
		return false
	}
	return c.missing.Contains(key)
}

// GetOrFetch returns the cached value for key or calls fetch and caches its
// result. When notFound classifies the fetch error as a missing key the key
// is marked missing, and later calls fail with ErrMissing without fetching.
func (c *LookupCache[V]) GetOrFetch(ctx context.Context, key string,
	fetch func(ctx context.Context) (V, error), notFound func(error) bool,
) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	if c.IsMissing(key) {
		c.mutex.Lock()
		c.stats.Negatives++
		c.mutex.Unlock()

		var zero V
		return zero, ErrMissing
	}

	value, err := fetch(ctx)
	if err != nil {
		if notFound != nil && notFound(err) {
			c.MarkMissing(key)
		}
		return value, err
	}

	c.Put(key, value)
	return value, nil
}

// Size returns the number of cached values.
func (c *LookupCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.values.Len()
}

// Stats returns a snapshot of the hit counters.
func (c *LookupCache[V]) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.stats
}

// Clear drops every value and missing mark.
func (c *LookupCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.values.Purge()
	c.missing.Purge()
	c.bloom = bloom.NewWithEstimates(uint(c.maxEntries), c.bloomFalsePositiveRate)
}
