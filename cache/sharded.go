package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// MaxShards is the largest number of shards of a ShardedCache.
	MaxShards = 16

	// DefaultCapacity is the total capacity used when none is given.
	DefaultCapacity = 64

	// minShardCapacity is the smallest capacity worth a shard of its own.
	// Below it, LRU order is kept exactly by using fewer shards.
	minShardCapacity = 16
)

// Hasher computes a hash for a key. ShardedCache uses it to pick a shard.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// ShardedCache is a thread-safe LRU cache split into shards, each guarded
// by its own mutex. The capacity is spread over the shards, so eviction is
// least-recently-used per shard.
type ShardedCache[K comparable, V any] struct {
	shards   []*shard[K, V]
	mask     uint64
	hasher   Hasher[K]
	capacity int // per shard

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	lru     lruList[K]
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// NewSharded creates a cache holding about capacity entries in total. If
// capacity <= 0, DefaultCapacity is used. The number of shards is a power
// of two no larger than MaxShards, and is 1 for small capacities.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	n := 1
	for n < MaxShards && capacity/(n*2) >= minShardCapacity {
		n *= 2
	}

	c := &ShardedCache[K, V]{
		shards:   make([]*shard[K, V], n),
		mask:     uint64(n - 1),
		hasher:   hasher,
		capacity: (capacity + n - 1) / n,
	}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*entry[K, V])}
	}
	return c
}

func (c *ShardedCache[K, V]) shardFor(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&c.mask]
}

// Get returns the value cached for key and marks it as recently used.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	v := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return v, true
}

// Set stores a value, evicting the least recently used entries of its
// shard when the shard is full.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = value
		s.lru.MoveToFront(e.node)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[key] = &entry[K, V]{value: value, node: s.lru.PushFront(key)}
}

// Delete removes an entry and reports whether it was present.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes all entries.
func (c *ShardedCache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		clear(s.entries)
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the number of entries across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Shards returns the number of shards.
func (c *ShardedCache[K, V]) Shards() int {
	return len(c.shards)
}

// TotalCapacity returns the capacity summed over all shards.
func (c *ShardedCache[K, V]) TotalCapacity() int {
	return c.capacity * len(c.shards)
}

// Stats returns current cache statistics.
func (c *ShardedCache[K, V]) Stats() Stats {
	return newStats(c.Len(), c.TotalCapacity(), c.hits.Load(), c.misses.Load(), c.evictions.Load())
}
