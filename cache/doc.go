// Package cache provides generic in-memory key/value stores with optional
// time-to-live, a least-recently-used variant and a memoization helper.
//
// # Cache
//
// [New] returns a [Cache] configured with functional options:
//
//	c := cache.New[string, int](cache.WithTTL(time.Minute), cache.WithMaxSize(100))
//	c.Set("a", 1, 0)                // store default TTL
//	c.Set("b", 2, 100*time.Millisecond)
//	v, ok := c.Get("a")
//
// A ttl <= 0 passed to Set uses the store default; a store default of zero
// means entries never expire. Expiry is checked against the clock when an
// entry is touched, there is no background goroutine:
//
//   - [Cache.Get] and [Cache.Has] delete an expired entry as a side effect.
//   - [Cache.Values] and [Cache.Entries] skip expired entries but leave them
//     stored, and [Cache.Keys] and [Cache.Size] include them.
//   - [Cache.Cleanup] deletes every expired entry eagerly.
//
// When a max size is configured and a new key is added to a full cache, the
// oldest inserted entry is evicted. Overwriting an existing key does not
// change its insertion position.
//
// # LRU
//
// [NewLRU] wraps a Cache with a recency list. [LRU.Get] and [LRU.Set] mark a
// key most recently used and a new key added at capacity evicts the least
// recently used key. TTL expiry still applies and is independent of recency.
//
// # Memoize
//
// [Memoize], [Memoize2] and [Memoize3] wrap a pure function. The argument
// tuple is encoded with msgpack (map keys sorted) and hashed with xxhash to
// form the cache key; the encoding is stored with the result so hash
// collisions are detected. The same options as [New] control TTL and size.
//
// # Events
//
// With [WithEmitter] every removal is published on an [eventing.Emitter]:
// [SubjectEvicted], [SubjectExpired] and [SubjectDeleted] carry a [Notice],
// [SubjectCleared] carries the number of removed entries. This is how callers
// invalidate derived state.
//
// # Concurrency
//
// None of the types lock. Each instance belongs to the goroutine that created
// it; callers sharing one must serialize access themselves.
package cache
