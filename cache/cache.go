package cache

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/gogpu/motion/model"
)

// Policy selects how long a Cache keeps compositions alive.
type Policy uint8

const (
	// Strong keeps up to a fixed number of compositions, evicting the least
	// recently used.
	Strong Policy = iota
	// Weak keeps a composition for as long as something else references it.
	Weak
	// None keeps nothing; every load parses again.
	None
)

// String returns the policy name as used in configuration files.
func (p Policy) String() string {
	switch p {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	case None:
		return "none"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy parses a policy name. Matching ignores case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strong", "":
		return Strong, nil
	case "weak":
		return Weak, nil
	case "none":
		return None, nil
	}
	return Strong, fmt.Errorf("cache: unknown policy %q", s)
}

// Cache maps document keys to parsed compositions. A cached composition is
// immutable and may be shared by any number of scenes.
//
// Implementations are safe for concurrent use.
type Cache interface {
	Get(key string) (*model.Composition, bool)
	Put(key string, c *model.Composition)
	Delete(key string)
	Clear()
	Len() int
	Stats() Stats
}

// New returns a cache with the given policy. capacity only applies to
// Strong; if it is <= 0, DefaultCapacity is used.
func New(p Policy, capacity int) Cache {
	switch p {
	case Weak:
		return NewWeak()
	case None:
		return noCache{}
	}
	return NewStrong(capacity)
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the total capacity, or 0 when unbounded.
	Capacity int
	// Hits and Misses count Get calls.
	Hits   uint64
	Misses uint64
	// HitRate is Hits over all Get calls, 0 when there were none.
	HitRate float64
	// Evictions counts entries dropped to make room or collected.
	Evictions uint64
}

func newStats(n, capacity int, hits, misses, evictions uint64) Stats {
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       n,
		Capacity:  capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Evictions: evictions,
	}
}

// StrongCache is a Cache backed by a sharded LRU.
type StrongCache struct {
	lru *ShardedCache[string, *model.Composition]
}

// NewStrong creates a cache of about capacity compositions.
func NewStrong(capacity int) *StrongCache {
	return &StrongCache{lru: NewSharded[string, *model.Composition](capacity, StringHasher)}
}

// Get implements Cache.
func (c *StrongCache) Get(key string) (*model.Composition, bool) { return c.lru.Get(key) }

// Put implements Cache. A nil composition is not stored.
func (c *StrongCache) Put(key string, comp *model.Composition) {
	if comp == nil {
		return
	}
	c.lru.Set(key, comp)
}

// Delete implements Cache.
func (c *StrongCache) Delete(key string) { c.lru.Delete(key) }

// Clear implements Cache.
func (c *StrongCache) Clear() { c.lru.Clear() }

// Len implements Cache.
func (c *StrongCache) Len() int { return c.lru.Len() }

// Stats implements Cache.
func (c *StrongCache) Stats() Stats { return c.lru.Stats() }

// WeakCache is a Cache that does not keep its compositions alive. Entries
// disappear once the garbage collector reclaims their composition.
type WeakCache struct {
	mu      sync.Mutex
	entries map[string]weak.Pointer[model.Composition]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewWeak creates an empty weak cache.
func NewWeak() *WeakCache {
	return &WeakCache{entries: make(map[string]weak.Pointer[model.Composition])}
}

// weakEntry identifies the entry a cleanup belongs to, so that a newer
// composition stored under the same key survives the old one's cleanup.
type weakEntry struct {
	key string
	ptr weak.Pointer[model.Composition]
}

// Get implements Cache.
func (c *WeakCache) Get(key string) (*model.Composition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wp, ok := c.entries[key]
	if ok {
		if comp := wp.Value(); comp != nil {
			c.hits.Add(1)
			return comp, true
		}
		delete(c.entries, key)
		c.evictions.Add(1)
	}
	c.misses.Add(1)
	return nil, false
}

// Put implements Cache. A nil composition is not stored.
func (c *WeakCache) Put(key string, comp *model.Composition) {
	if comp == nil {
		return
	}
	wp := weak.Make(comp)

	c.mu.Lock()
	c.entries[key] = wp
	c.mu.Unlock()

	runtime.AddCleanup(comp, c.collected, weakEntry{key: key, ptr: wp})
}

func (c *WeakCache) collected(e weakEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[e.key] == e.ptr {
		delete(c.entries, e.key)
		c.evictions.Add(1)
	}
}

// Delete implements Cache.
func (c *WeakCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear implements Cache.
func (c *WeakCache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len implements Cache. It counts entries whose composition is still
// reachable.
func (c *WeakCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, wp := range c.entries {
		if wp.Value() != nil {
			n++
		}
	}
	return n
}

// Stats implements Cache.
func (c *WeakCache) Stats() Stats {
	return newStats(c.Len(), 0, c.hits.Load(), c.misses.Load(), c.evictions.Load())
}

// noCache is the None policy.
type noCache struct{}

func (noCache) Get(string) (*model.Composition, bool) { return nil, false }
func (noCache) Put(string, *model.Composition)        {}
func (noCache) Delete(string)                         {}
func (noCache) Clear()                                {}
func (noCache) Len() int                              { return 0 }
func (noCache) Stats() Stats                          { return Stats{} }
