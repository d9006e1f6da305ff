// Package cache keeps parsed compositions for reuse.
//
// A composition is immutable once parsed, so a single instance can back
// every scene built from the same document. The Policy decides how long
// compositions stay cached:
//
//	c := cache.New(cache.Strong, 32) // LRU of about 32 documents
//	c := cache.New(cache.Weak, 0)    // as long as a scene uses them
//	c := cache.New(cache.None, 0)    // never
//
// The Strong policy is built on ShardedCache, a generic LRU split into
// shards with one mutex each, which is usable on its own:
//
//	lru := cache.NewSharded[string, int](256, cache.StringHasher)
//	lru.Set("key", 42)
//	value, ok := lru.Get("key")
//
// # Thread Safety
//
// All caches are safe for concurrent use and must not be copied after
// creation.
package cache
