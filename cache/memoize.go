package cache

import (
	"bytes"
	"encoding"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

type memoEntry[R any] struct {
	args   string
	result R
}

// memoizer caches results under the xxhash digest of the msgpack encoded
// argument tuple. The encoded tuple is kept alongside the result so a digest
// collision is treated as a miss rather than returning another call's result.
type memoizer[R any] struct {
	cache  *Cache[uint64, memoEntry[R]]
	cfg    config
	hidden map[reflect.Type]bool
}

func newMemoizer[R any](opts []Option) *memoizer[R] {
	c := New[uint64, memoEntry[R]](opts...)
	return &memoizer[R]{cache: c, cfg: c.cfg, hidden: make(map[reflect.Type]bool)}
}

func (m *memoizer[R]) call(args []any, compute func() R) R {
	for _, arg := range args {
		t := reflect.TypeOf(arg)
		hidden, ok := m.hidden[t]
		if !ok {
			hidden = hasHiddenState(t, make(map[reflect.Type]bool))
			m.hidden[t] = hidden
		}
		if hidden {
			if m.cfg.logger != nil {
				m.cfg.logger.Warn("memoize: %s has fields that are not encoded, calling through", t)
			}
			return compute()
		}
	}
	encoded, err := encodeArgs(args)
	if err != nil {
		if m.cfg.logger != nil {
			m.cfg.logger.Warn("memoize: cannot encode arguments, calling through: %s", err)
		}
		return compute()
	}
	key := digest(encoded)
	if e, ok := m.cache.Get(key); ok {
		if e.args == string(encoded) {
			return e.result
		}
		if m.cfg.logger != nil {
			m.cfg.logger.Debug("memoize: digest collision on %x", key)
		}
	}
	result := compute()
	m.cache.Set(key, memoEntry[R]{args: string(encoded), result: result}, 0)
	return result
}

func digest(encoded []byte) uint64 {
	return xxhash.Sum64(encoded)
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	selfEncodingFns = []reflect.Type{
		reflect.TypeOf((*msgpack.CustomEncoder)(nil)).Elem(),
		reflect.TypeOf((*msgpack.Marshaler)(nil)).Elem(),
		reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem(),
		reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem(),
	}
)

// hasHiddenState reports whether values of t can differ in state msgpack
// leaves out: unexported struct fields or fields tagged `msgpack:"-"`.
// Types that encode themselves, and time.Time, are trusted.
func hasHiddenState(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == nil || seen[t] || t == timeType {
		return false
	}
	seen[t] = true
	for _, iface := range selfEncodingFns {
		if t.Implements(iface) || reflect.PointerTo(t).Implements(iface) {
			return false
		}
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return hasHiddenState(t.Elem(), seen)
	case reflect.Map:
		return hasHiddenState(t.Key(), seen) || hasHiddenState(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("msgpack") == "-" {
				return true
			}
			if hasHiddenState(f.Type, seen) {
				return true
			}
		}
	}
	return false
}

// encodeArgs serializes the argument tuple deterministically. Map keys are
// sorted so equal maps encode identically.
func encodeArgs(args []any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(args); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Memoize wraps fn so repeated calls with an equal argument return the
// stored result without calling fn again. Arguments are compared by their
// msgpack encoding. fn must be pure. opts configure the backing cache (TTL,
// max size, logger, emitter).
//
// Arguments whose state msgpack cannot fully encode bypass the cache and
// call fn directly: channels, functions, and structs with unexported or
// `msgpack:"-"` fields. Arguments typed as interfaces are compared by encoded
// value, not by dynamic type, so int8(1) and int64(1) passed as any share a
// cache entry.
func Memoize[A, R any](fn func(A) R, opts ...Option) func(A) R {
	m := newMemoizer[R](opts)
	return func(a A) R {
		return m.call([]any{a}, func() R { return fn(a) })
	}
}

// Memoize2 is Memoize for two-argument functions.
func Memoize2[A, B, R any](fn func(A, B) R, opts ...Option) func(A, B) R {
	m := newMemoizer[R](opts)
	return func(a A, b B) R {
		return m.call([]any{a, b}, func() R { return fn(a, b) })
	}
}

// Memoize3 is Memoize for three-argument functions.
func Memoize3[A, B, C, R any](fn func(A, B, C) R, opts ...Option) func(A, B, C) R {
	m := newMemoizer[R](opts)
	return func(a A, b B, c C) R {
		return m.call([]any{a, b, c}, func() R { return fn(a, b, c) })
	}
}
