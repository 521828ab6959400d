package cache

import (
	"container/list"
	"time"

	"github.com/cockroachdb/errors"
)

// LRU is a Cache bounded by maxSize that evicts the least recently used key
// instead of the oldest inserted one. Get and Set promote a key; Has, Peek
// and the listing methods do not. TTL expiry works as in Cache and is
// independent of recency.
type LRU[K comparable, V any] struct {
	cache   *Cache[K, V]
	recency *list.List // front is most recently used
	elems   map[K]*list.Element
	maxSize int
}

// NewLRU returns an empty LRU holding at most maxSize entries. Any
// WithMaxSize in opts is overridden.
func NewLRU[K comparable, V any](maxSize int, opts ...Option) (*LRU[K, V], error) {
	if maxSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "lru max size %d", maxSize)
	}
	l := &LRU[K, V]{
		cache:   New[K, V](append(opts, WithMaxSize(maxSize))...),
		recency: list.New(),
		elems:   make(map[K]*list.Element, maxSize),
		maxSize: maxSize,
	}
	l.cache.onRemove = l.forget
	return l, nil
}

// Get returns the value for key and marks it most recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	val, ok := l.cache.Get(key)
	if ok {
		l.recency.MoveToFront(l.elems[key])
	}
	return val, ok
}

// Peek returns the value for key without changing its recency. Expired
// entries are purged as in Get.
func (l *LRU[K, V]) Peek(key K) (V, bool) {
	defer l.cache.flush()
	if e, ok := l.cache.live(key); ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Set stores val under key and marks it most recently used. Adding a new key
// at capacity first evicts the least recently used one.
func (l *LRU[K, V]) Set(key K, val V, ttl time.Duration) {
	if el, ok := l.elems[key]; ok {
		l.cache.Set(key, val, ttl)
		l.recency.MoveToFront(el)
		return
	}
	if l.cache.Size() >= l.maxSize {
		if oldest := l.recency.Back(); oldest != nil {
			l.cache.evict(l.cache.items[oldest.Value.(K)])
		}
	}
	l.cache.set(key, val, ttl)
	l.elems[key] = l.recency.PushFront(key)
	l.cache.flush()
}

// Has reports whether key holds a live entry without promoting it.
func (l *LRU[K, V]) Has(key K) bool {
	return l.cache.Has(key)
}

// Hits returns how many times key has been read since it was last set.
func (l *LRU[K, V]) Hits(key K) (bool, int) {
	return l.cache.Hits(key)
}

// Delete removes key and reports whether it was present.
func (l *LRU[K, V]) Delete(key K) bool {
	return l.cache.Delete(key)
}

// Clear removes every entry.
func (l *LRU[K, V]) Clear() {
	l.cache.Clear()
	l.recency.Init()
	l.elems = make(map[K]*list.Element, l.maxSize)
}

// Size returns the number of stored entries, including unpurged expired ones.
func (l *LRU[K, V]) Size() int {
	return l.cache.Size()
}

// Capacity returns the maximum number of entries.
func (l *LRU[K, V]) Capacity() int {
	return l.maxSize
}

// Keys returns every stored key from least to most recently used.
func (l *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(l.elems))
	for el := l.recency.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(K))
	}
	return keys
}

// Values returns live values from least to most recently used, skipping
// expired entries without purging them.
func (l *LRU[K, V]) Values() []V {
	entries := l.Entries()
	values := make([]V, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

// Entries returns live pairs from least to most recently used, skipping
// expired entries without purging them.
func (l *LRU[K, V]) Entries() []Entry[K, V] {
	now := l.cache.cfg.now()
	entries := make([]Entry[K, V], 0, len(l.elems))
	for el := l.recency.Back(); el != nil; el = el.Prev() {
		e := l.cache.items[el.Value.(K)].Value.(*entry[K, V])
		if !e.expired(now) {
			entries = append(entries, Entry[K, V]{Key: e.key, Value: e.value})
		}
	}
	return entries
}

// Cleanup deletes every expired entry and returns how many were removed.
func (l *LRU[K, V]) Cleanup() int {
	return l.cache.Cleanup()
}

// Stats returns a snapshot of the activity counters.
func (l *LRU[K, V]) Stats() Stats {
	return l.cache.Stats()
}

func (l *LRU[K, V]) forget(key K) {
	if el, ok := l.elems[key]; ok {
		l.recency.Remove(el)
		delete(l.elems, key)
	}
}
