package cache

import (
	"testing"
	"time"

	"github.com/agentuity/go-collections/eventing"
	"github.com/agentuity/go-collections/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestSetGetCache(t *testing.T) {
	c := New[string, string]()
	val, ok := c.Get("test")
	assert.False(t, ok)
	assert.Equal(t, "", val)

	c.Set("test", "value", 0)
	val, ok = c.Get("test")
	assert.True(t, ok)
	assert.Equal(t, "value", val)

	found, hits := c.Hits("test")
	assert.True(t, found)
	assert.Equal(t, 1, hits)

	c.Set("test", "other", 0)
	_, hits = c.Hits("test")
	assert.Equal(t, 0, hits)
}

func TestCacheTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](WithClock(clock.Now))
	c.Set("a", 1, 100*time.Millisecond)

	clock.Advance(50 * time.Millisecond)
	val, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	clock.Advance(50 * time.Millisecond)
	_, ok = c.Get("a")
	assert.True(t, ok, "still live exactly at ttl")

	clock.Advance(50 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size(), "get purges the expired entry")
}

func TestCacheDefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](WithClock(clock.Now), WithTTL(time.Second))
	c.Set("default", 1, 0)
	c.Set("custom", 2, 3*time.Second)

	clock.Advance(2 * time.Second)
	assert.False(t, c.Has("default"))
	assert.True(t, c.Has("custom"))
}

func TestCacheNoTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](WithClock(clock.Now))
	c.Set("a", 1, 0)
	clock.Advance(24 * 365 * time.Hour)
	assert.True(t, c.Has("a"))
	assert.Equal(t, 0, c.Cleanup())
}

func TestCacheHasPurges(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](WithClock(clock.Now))
	c.Set("a", 1, time.Millisecond)
	clock.Advance(time.Second)
	assert.Equal(t, 1, c.Size())
	assert.False(t, c.Has("a"))
	assert.Equal(t, 0, c.Size())
}

func TestCacheListingDoesNotPurge(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](WithClock(clock.Now))
	c.Set("stale", 1, time.Millisecond)
	c.Set("fresh", 2, 0)
	clock.Advance(time.Second)

	assert.Equal(t, []int{2}, c.Values())
	assert.Equal(t, []Entry[string, int]{{Key: "fresh", Value: 2}}, c.Entries())
	assert.Equal(t, []string{"stale", "fresh"}, c.Keys())
	assert.Equal(t, 2, c.Size(), "values and entries leave expired entries in place")

	assert.Equal(t, 1, c.Cleanup())
	assert.Equal(t, 1, c.Size())
	assert.Equal(t, []string{"fresh"}, c.Keys())
}

func TestCacheFIFOEviction(t *testing.T) {
	c := New[string, int](WithMaxSize(3))
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)
	c.Get("a")
	c.Set("d", 4, 0)

	assert.False(t, c.Has("a"), "oldest inserted is evicted even when recently read")
	assert.True(t, c.Has("b"))
	assert.True(t, c.Has("d"))
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCacheOverwriteKeepsPosition(t *testing.T) {
	c := New[string, int](WithMaxSize(2))
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("a", 10, 0)
	assert.Equal(t, 2, c.Size())

	c.Set("c", 3, 0)
	assert.False(t, c.Has("a"))
	assert.Equal(t, []string{"b", "c"}, c.Keys())
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[int, string]()
	c.Set(1, "one", 0)
	c.Set(2, "two", 0)

	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1))
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Empty(t, c.Keys())
	_, ok := c.Get(2)
	assert.False(t, ok)
}

func TestCacheStats(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](WithClock(clock.Now))
	c.Set("a", 1, time.Second)
	c.Get("a")
	c.Get("missing")
	clock.Advance(2 * time.Second)
	c.Get("a")

	assert.Equal(t, Stats{Hits: 1, Misses: 2, Expirations: 1}, c.Stats())
	c.ResetStats()
	assert.Equal(t, Stats{}, c.Stats())
}

func TestCacheEvents(t *testing.T) {
	clock := newFakeClock()
	emitter := eventing.NewEmitter()
	var subjects []string
	var notices []Notice
	emitter.Subscribe("cache.*", func(ev eventing.Event) {
		subjects = append(subjects, ev.Subject)
		if n, ok := ev.Payload.(Notice); ok {
			notices = append(notices, n)
		}
	})

	c := New[string, int](WithClock(clock.Now), WithMaxSize(1), WithEmitter(emitter))
	c.Set("a", 1, time.Second)
	c.Set("b", 2, time.Second)
	clock.Advance(2 * time.Second)
	c.Get("b")
	c.Set("c", 3, 0)
	c.Delete("c")
	c.Set("d", 4, 0)
	c.Clear()

	assert.Equal(t, []string{SubjectEvicted, SubjectExpired, SubjectDeleted, SubjectCleared}, subjects)
	require.Len(t, notices, 3)
	assert.Equal(t, Notice{Key: "a", Value: 1}, notices[0])
	assert.Equal(t, Notice{Key: "b", Value: 2}, notices[1])
	assert.Equal(t, Notice{Key: "c", Value: 3}, notices[2])
}

func TestCacheLogsRemovals(t *testing.T) {
	clock := newFakeClock()
	log := logger.NewTestLogger()
	c := New[string, int](WithClock(clock.Now), WithMaxSize(1), WithLogger(log))
	c.Set("a", 1, time.Second)
	c.Set("b", 2, time.Second)
	clock.Advance(2 * time.Second)
	c.Cleanup()

	assert.Equal(t, 2, log.Count("TRACE"))
}

func TestCacheCleanupWithReentrantSubscriber(t *testing.T) {
	clock := newFakeClock()
	emitter := eventing.NewEmitter()
	c := New[string, int](WithClock(clock.Now), WithEmitter(emitter))
	var deleted []bool
	emitter.Subscribe(SubjectExpired, func(ev eventing.Event) {
		if ev.Payload.(Notice).Key == "a" {
			deleted = append(deleted, c.Delete("b"))
		}
	})
	c.Set("a", 1, time.Second)
	c.Set("b", 2, time.Second)
	c.Set("c", 3, time.Second)
	clock.Advance(2 * time.Second)

	assert.Equal(t, 3, c.Cleanup())
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, uint64(3), c.Stats().Expirations)
	assert.Equal(t, []bool{false}, deleted)
}

func TestCacheEvictionSubscriberCanSet(t *testing.T) {
	emitter := eventing.NewEmitter()
	c := New[string, int](WithMaxSize(2), WithEmitter(emitter))
	emitter.Once(SubjectEvicted, func(ev eventing.Event) {
		assert.Equal(t, 2, c.Size())
		c.Set("x", 9, 0)
	})
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []string{"c", "x"}, c.Keys())
}
