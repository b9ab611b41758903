// Package cache provides a thread-safe LRU cache charged by size.
//
// rollcrc uses it to share rolling tables between searches and chunkers that
// ask for the same window size, so each table is built once while it stays hot.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// LRU is a thread-safe LRU cache with a fixed capacity.
// Each entry carries a caller-supplied charge; the least recently used
// entries are evicted once the total charge would exceed the capacity.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity uint64
	usage    uint64
	table    map[K]*list.Element
	lru      *list.List // front is most recently used

	// Statistics
	hits   atomic.Uint64
	misses atomic.Uint64
}

type lruEntry[K comparable, V any] struct {
	key    K
	value  V
	charge uint64
}

// getEntry extracts the entry from a list element.
// The list only ever stores *lruEntry[K, V].
func getEntry[K comparable, V any](elem *list.Element) *lruEntry[K, V] {
	entry, _ := elem.Value.(*lruEntry[K, V])
	return entry
}

// NewLRU creates a new LRU cache with the given capacity.
func NewLRU[K comparable, V any](capacity uint64) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: capacity,
		table:    make(map[K]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the value for key and marks it recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.table[key]; ok {
		c.lru.MoveToFront(elem)
		c.hits.Add(1)
		return getEntry[K, V](elem).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Put adds or replaces the value for key.
// An entry whose charge alone exceeds the capacity is not kept.
func (c *LRU[K, V]) Put(key K, value V, charge uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value, charge)
}

func (c *LRU[K, V]) put(key K, value V, charge uint64) {
	if elem, ok := c.table[key]; ok {
		c.removeEntry(elem)
	}
	if charge > c.capacity {
		return
	}
	for c.usage+charge > c.capacity && c.lru.Len() > 0 {
		c.removeEntry(c.lru.Back())
	}
	elem := c.lru.PushFront(&lruEntry[K, V]{key: key, value: value, charge: charge})
	c.table[key] = elem
	c.usage += charge
}

// GetOrCreate returns the cached value for key, building and caching it with
// create on a miss. create runs without the lock held; if two callers race,
// the first value stored wins and both receive it.
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, uint64)) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v, charge := create()

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.table[key]; ok {
		c.lru.MoveToFront(elem)
		return getEntry[K, V](elem).value
	}
	c.put(key, v, charge)
	return v
}

// Erase removes key from the cache.
func (c *LRU[K, V]) Erase(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.table[key]; ok {
		c.removeEntry(elem)
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Usage returns the total charge of cached entries.
func (c *LRU[K, V]) Usage() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// Capacity returns the configured capacity.
func (c *LRU[K, V]) Capacity() uint64 {
	return c.capacity
}

// Hits returns the number of cache hits.
func (c *LRU[K, V]) Hits() uint64 {
	return c.hits.Load()
}

// Misses returns the number of cache misses.
func (c *LRU[K, V]) Misses() uint64 {
	return c.misses.Load()
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *LRU[K, V]) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// removeEntry removes an entry from the cache.
// Must be called with mu held.
func (c *LRU[K, V]) removeEntry(elem *list.Element) {
	entry := getEntry[K, V](elem)
	delete(c.table, entry.key)
	c.lru.Remove(elem)
	c.usage -= entry.charge
}
