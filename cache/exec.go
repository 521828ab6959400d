package cache

import (
	"context"
	"time"
)

// Store is the read/write surface shared by Cache and LRU.
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, val V, ttl time.Duration)
}

var (
	_ Store[string, int] = (*Cache[string, int])(nil)
	_ Store[string, int] = (*LRU[string, int])(nil)
)

// Invoker is a function that produces a value of type V.
// The bool return indicates whether a value was found. Return false to signal
// "not found" without caching a zero value.
type Invoker[V any] func(ctx context.Context) (V, bool, error)

// Exec is a cache-aside helper. On a hit it returns the stored value with
// found=true. On a miss it calls invoke and, if invoke reports found=true,
// stores the result under key with ttl (<= 0 uses the store default).
// Errors from invoke are returned and nothing is cached.
func Exec[K comparable, V any](ctx context.Context, s Store[K, V], key K, ttl time.Duration, invoke Invoker[V]) (V, bool, error) {
	if val, ok := s.Get(key); ok {
		return val, true, nil
	}
	result, ok, err := invoke(ctx)
	if err != nil || !ok {
		var zero V
		return zero, false, err
	}
	s.Set(key, result, ttl)
	return result, true, nil
}
