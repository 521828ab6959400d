package cache

import (
	"container/list"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSize is returned when a bounded cache is created with a
// non-positive size.
var ErrInvalidSize = errors.New("cache: size must be positive")

const (
	SubjectEvicted = "cache.evicted"
	SubjectExpired = "cache.expired"
	SubjectDeleted = "cache.deleted"
	SubjectCleared = "cache.cleared"
)

// Notice is the payload published for a removed entry. Clear publishes the
// number of removed entries instead.
type Notice struct {
	Key   any
	Value any
}

// Entry is a key/value pair returned by Entries.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Stats counts cache activity since creation or the last ResetStats.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

type notification struct {
	subject string
	payload any
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	insertedAt time.Time
	ttl        time.Duration
	hits       int
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.insertedAt) > e.ttl
}

// Cache is a key/value store with optional TTL and a maximum entry count.
// When full, the oldest inserted entry is evicted. A Cache is not safe for
// concurrent use.
type Cache[K comparable, V any] struct {
	cfg   config
	items map[K]*list.Element
	order *list.List // insertion order, front is oldest
	stats Stats

	// pending holds notifications raised during an operation; they are
	// published by flush once the store is consistent again.
	pending []notification

	// onRemove observes every single-entry removal; LRU uses it to keep its
	// recency list in step.
	onRemove func(key K)
}

// New returns an empty Cache configured by opts.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	return &Cache[K, V]{
		cfg:   applyOptions(opts),
		items: make(map[K]*list.Element),
		order: list.New(),
	}
}

// Set stores val under key. A ttl <= 0 uses the store default. Overwriting
// keeps the key's insertion position but resets its timestamp and hit count.
func (c *Cache[K, V]) Set(key K, val V, ttl time.Duration) {
	c.set(key, val, ttl)
	c.flush()
}

func (c *Cache[K, V]) set(key K, val V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.ttl
	}
	now := c.cfg.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = val
		e.insertedAt = now
		e.ttl = ttl
		e.hits = 0
		return
	}
	if c.cfg.maxSize > 0 && len(c.items) >= c.cfg.maxSize {
		c.evict(c.order.Front())
	}
	c.items[key] = c.order.PushBack(&entry[K, V]{
		key:        key,
		value:      val,
		insertedAt: now,
		ttl:        ttl,
	})
}

// Get returns the value for key. Expired entries are deleted on access.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	defer c.flush()
	e, ok := c.live(key)
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	e.hits++
	c.stats.Hits++
	return e.value, true
}

// Has reports whether key holds a live entry, deleting it if expired.
func (c *Cache[K, V]) Has(key K) bool {
	defer c.flush()
	_, ok := c.live(key)
	return ok
}

// Hits returns how many times key has been read since it was last set,
// without checking expiry.
func (c *Cache[K, V]) Hits(key K) (bool, int) {
	if el, ok := c.items[key]; ok {
		return true, el.Value.(*entry[K, V]).hits
	}
	return false, 0
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	e := c.remove(el)
	c.notify(SubjectDeleted, Notice{Key: e.key, Value: e.value})
	c.flush()
	return true
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	n := len(c.items)
	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.notify(SubjectCleared, n)
	c.flush()
}

// Size returns the number of stored entries, including expired entries that
// have not been purged yet. Call Cleanup first for a live count.
func (c *Cache[K, V]) Size() int {
	return len(c.items)
}

// Keys returns every stored key in insertion order, expired or not.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

// Values returns live values in insertion order. Unlike Get, expired entries
// are skipped but left in place.
func (c *Cache[K, V]) Values() []V {
	now := c.cfg.now()
	values := make([]V, 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		if e := el.Value.(*entry[K, V]); !e.expired(now) {
			values = append(values, e.value)
		}
	}
	return values
}

// Entries returns live key/value pairs in insertion order. Like Values it
// does not purge.
func (c *Cache[K, V]) Entries() []Entry[K, V] {
	now := c.cfg.now()
	entries := make([]Entry[K, V], 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		if e := el.Value.(*entry[K, V]); !e.expired(now) {
			entries = append(entries, Entry[K, V]{Key: e.key, Value: e.value})
		}
	}
	return entries
}

// Cleanup deletes every expired entry and returns how many were removed.
func (c *Cache[K, V]) Cleanup() int {
	now := c.cfg.now()
	var removed int
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*entry[K, V]).expired(now) {
			c.expire(el)
			removed++
		}
		el = next
	}
	c.flush()
	return removed
}

// Stats returns a snapshot of the activity counters.
func (c *Cache[K, V]) Stats() Stats {
	return c.stats
}

// ResetStats zeroes the activity counters.
func (c *Cache[K, V]) ResetStats() {
	c.stats = Stats{}
}

func (c *Cache[K, V]) live(key K) (*entry[K, V], bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if el.Value.(*entry[K, V]).expired(c.cfg.now()) {
		c.expire(el)
		return nil, false
	}
	return el.Value.(*entry[K, V]), true
}

func (c *Cache[K, V]) expire(el *list.Element) {
	e := c.remove(el)
	c.stats.Expirations++
	if c.cfg.logger != nil {
		c.cfg.logger.Trace("expired key %v after %s", e.key, e.ttl)
	}
	c.notify(SubjectExpired, Notice{Key: e.key, Value: e.value})
}

func (c *Cache[K, V]) evict(el *list.Element) {
	if el == nil {
		return
	}
	e := c.remove(el)
	c.stats.Evictions++
	if c.cfg.logger != nil {
		c.cfg.logger.Trace("evicted key %v (max size %d)", e.key, c.cfg.maxSize)
	}
	c.notify(SubjectEvicted, Notice{Key: e.key, Value: e.value})
}

func (c *Cache[K, V]) remove(el *list.Element) *entry[K, V] {
	e := c.order.Remove(el).(*entry[K, V])
	delete(c.items, e.key)
	if c.onRemove != nil {
		c.onRemove(e.key)
	}
	return e
}

func (c *Cache[K, V]) notify(subject string, payload any) {
	if c.cfg.emitter != nil {
		c.pending = append(c.pending, notification{subject, payload})
	}
}

// flush publishes pending notifications. Subscribers may call back into the
// cache; their own notifications are published by the nested call.
func (c *Cache[K, V]) flush() {
	for len(c.pending) > 0 {
		batch := c.pending
		c.pending = nil
		for _, n := range batch {
			c.cfg.emitter.Publish(n.subject, n.payload)
		}
	}
}
