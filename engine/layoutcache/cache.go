/*
Package layoutcache caches paragraph layouts.

The cache is a least-recently-used map from keys to layouts. Keys are 64-bit
xxhash digests over everything a layout depends on: the content and the
constraints it has been laid out with (see Hasher).

Layouts are shared: the cache and every caller receiving a layout from it
hold a pointer to the same value, which must not be modified. A layout lives
as long as anybody holds it; eviction only drops the cache's reference.

The cache is safe for concurrent use. Concurrent computations of the same
layout are not prevented; the last one to be stored wins.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layoutcache

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/engine/position"
)

// tracer traces with key 'textflow.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.layout")
}

// DefaultCapacity is the capacity of caches created with a capacity ≤ 0.
const DefaultCapacity = 256

// Cache is an LRU cache of layouts.
type Cache struct {
	sync.Mutex
	capacity int
	entries  *linkedhashmap.Map // Key → *position.Layout, least recently used first
	hits     uint64
	misses   uint64
}

// New creates a cache holding up to capacity layouts.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  linkedhashmap.New(),
	}
}

// Get looks up a layout and marks it as recently used.
func (c *Cache) Get(key Key) (*position.Layout, bool) {
	c.Lock()
	defer c.Unlock()
	v, found := c.entries.Get(key)
	if !found {
		c.misses++
		return nil, false
	}
	c.hits++
	c.entries.Remove(key)
	c.entries.Put(key, v)
	return v.(*position.Layout), true
}

// Put stores a layout, replacing any layout stored under the same key, and
// evicts the least recently used layout if the cache is full. Nil layouts
// are not stored.
func (c *Cache) Put(key Key, l *position.Layout) {
	if l == nil {
		return
	}
	c.Lock()
	defer c.Unlock()
	c.entries.Remove(key)
	c.entries.Put(key, l)
	for c.entries.Size() > c.capacity {
		it := c.entries.Iterator()
		if !it.First() {
			break
		}
		tracer().Debugf("layout cache: evicting %v", it.Key())
		c.entries.Remove(it.Key())
	}
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return c.entries.Size()
}

// Clear drops all layouts. Statistics are kept.
func (c *Cache) Clear() {
	c.Lock()
	defer c.Unlock()
	c.entries.Clear()
}

// Stats are usage statistics of a cache.
type Stats struct {
	Hits, Misses   uint64
	Size, Capacity int
}

func (s Stats) String() string {
	return fmt.Sprintf("layout cache: %d/%d entries, %d hits, %d misses", s.Size, s.Capacity, s.Hits, s.Misses)
}

// Stats returns the cache's usage statistics.
func (c *Cache) Stats() Stats {
	c.Lock()
	defer c.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Size: c.entries.Size(), Capacity: c.capacity}
}
