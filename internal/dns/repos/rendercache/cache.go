// Package rendercache keeps rendered zone files keyed by zone ID.
package rendercache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores rendered zone text. An entry is only returned when the caller's
// stamp matches the one it was stored under, so a changed zone never reads
// stale output even if an invalidation was missed.
type Cache interface {
	Get(zoneID, stamp string) (string, bool)
	Put(zoneID, stamp, text string)
	Invalidate(zoneID string)
	Len() int
	Stats() (hits, misses, evictions uint64)
}

type entry struct {
	stamp string
	text  string
}

// renderCache is an LRU-backed Cache with hit/miss/eviction counters.
type renderCache struct {
	lru       *lru.Cache[string, entry]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache always misses.
type disabledCache struct{}

// newLRU is replaceable in tests.
var newLRU = func(size int, onEvict func(string, entry)) (*lru.Cache[string, entry], error) {
	return lru.NewWithEvict(size, onEvict)
}

// New creates a Cache holding up to size zones. If size <= 0, a disabled
// cache is returned.
func New(size int) (Cache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	var rc renderCache
	cache, err := newLRU(size, func(string, entry) {
		atomic.AddUint64(&rc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	rc.lru = cache
	return &rc, nil
}

// Get returns the text stored for zoneID under stamp.
func (c *renderCache) Get(zoneID, stamp string) (string, bool) {
	if e, ok := c.lru.Get(zoneID); ok && e.stamp == stamp {
		atomic.AddUint64(&c.hits, 1)
		return e.text, true
	}
	atomic.AddUint64(&c.misses, 1)
	return "", false
}

func (c *renderCache) Put(zoneID, stamp, text string) {
	c.lru.Add(zoneID, entry{stamp: stamp, text: text})
}

// Invalidate drops the entry for zoneID.
func (c *renderCache) Invalidate(zoneID string) {
	c.lru.Remove(zoneID)
}

func (c *renderCache) Len() int { return c.lru.Len() }

// Stats returns cumulative counters. Evictions include invalidated and purged entries.
func (c *renderCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (d *disabledCache) Get(string, string) (string, bool) { return "", false }
func (d *disabledCache) Put(string, string, string)         {}
func (d *disabledCache) Invalidate(string)                  {}
func (d *disabledCache) Len() int                           { return 0 }
func (d *disabledCache) Stats() (uint64, uint64, uint64)    { return 0, 0, 0 }

var _ Cache = (*renderCache)(nil)
var _ Cache = (*disabledCache)(nil)
