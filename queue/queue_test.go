package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/agentuity/go-collections/eventing"
	"github.com/agentuity/go-collections/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](q *Queue[T]) []T {
	var out []T
	for {
		v, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestQueuePriorityOrdering(t *testing.T) {
	q := New[string]()
	q.EnqueueWithPriority("low", 1)
	q.EnqueueWithPriority("high", 5)
	q.EnqueueWithPriority("mid", 3)

	assert.Equal(t, []string{"high", "mid", "low"}, drain(q))
}

func TestQueueFIFOWithinPriority(t *testing.T) {
	q := New[int]()
	q.Enqueue(1)
	q.EnqueueWithPriority(2, 2)
	q.Enqueue(3)
	q.EnqueueWithPriority(4, 2)
	q.EnqueueWithPriority(5, -1)

	assert.Equal(t, []int{2, 4, 1, 3, 5}, q.ToArray())
	assert.Equal(t, []int{2, 4, 1, 3, 5}, drain(q))
}

func TestQueueToArrayMatchesDequeueOrder(t *testing.T) {
	q := New[int]()
	for i, p := range []int{3, 1, 3, 0, 2, 1} {
		q.EnqueueWithPriority(i, p)
	}
	snapshot := q.ToArray()
	assert.Equal(t, 6, q.Size())
	assert.Equal(t, snapshot, drain(q))
}

func TestQueueEmpty(t *testing.T) {
	q := New[string]()
	assert.True(t, q.IsEmpty())
	v, ok := q.Dequeue()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	_, ok = q.Peek()
	assert.False(t, ok)
	_, ok = q.PeekItem()
	assert.False(t, ok)
	assert.Empty(t, q.ToArray())
}

func TestQueuePeek(t *testing.T) {
	q := New[string]()
	q.Enqueue("a")
	q.EnqueueWithPriority("b", 1)
	v, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, q.Size())
}

func TestQueueCapacityEviction(t *testing.T) {
	q := New[string](WithMaxSize(2))
	first := q.Enqueue("first")
	q.Enqueue("second")
	assert.True(t, q.IsFull())
	q.Enqueue("third")

	assert.Equal(t, 2, q.Size())
	assert.False(t, q.Remove(first))
	assert.Equal(t, []string{"second", "third"}, q.ToArray())
}

func TestQueueOverflowDropsFrontNotOldest(t *testing.T) {
	q := New[string](WithMaxSize(2))
	q.Enqueue("old")
	q.EnqueueWithPriority("urgent", 9)
	q.Enqueue("new")

	assert.Equal(t, []string{"old", "new"}, q.ToArray())
}

func TestQueueUnboundedNeverFull(t *testing.T) {
	q := New[int](WithMaxSize(0))
	for i := range 100 {
		q.Enqueue(i)
	}
	assert.False(t, q.IsFull())
	assert.Equal(t, 100, q.Size())
}

func TestQueueRemove(t *testing.T) {
	q := New[string]()
	a := q.Enqueue("a")
	b := q.EnqueueWithPriority("b", 1)
	c := q.Enqueue("c")

	assert.True(t, q.Remove(a))
	assert.False(t, q.Remove(a))
	assert.False(t, q.Remove("missing"))
	assert.Equal(t, []string{"b", "c"}, q.ToArray())
	assert.True(t, q.Remove(b))
	assert.True(t, q.Remove(c))
	assert.True(t, q.IsEmpty())
}

func TestQueueIDsAreUniqueUUIDs(t *testing.T) {
	q := New[int]()
	seen := make(map[string]bool)
	for i := range 1000 {
		id := q.Enqueue(i)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestQueueItems(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var n int
	q := New[string](
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	q.EnqueueWithPriority("x", 4)
	q.Enqueue("y")

	items := q.Items()
	require.Len(t, items, 2)
	assert.Equal(t, Item[string]{ID: "id-1", Data: "x", Priority: 4, EnqueuedAt: now}, items[0])
	assert.Equal(t, "id-2", items[1].ID)

	items[0].Data = "mutated"
	item, ok := q.PeekItem()
	assert.True(t, ok)
	assert.Equal(t, "x", item.Data)
}

func TestQueueClear(t *testing.T) {
	q := New[int](WithMaxSize(3))
	q.Enqueue(1)
	q.Enqueue(2)
	q.Clear()
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Size())
	q.Enqueue(3)
	assert.Equal(t, []int{3}, q.ToArray())
}

func TestQueueEvents(t *testing.T) {
	emitter := eventing.NewEmitter()
	log := logger.NewTestLogger()
	var subjects []string
	var dropped []string
	emitter.Subscribe("queue.>", func(ev eventing.Event) {
		subjects = append(subjects, ev.Subject)
		if item, ok := ev.Payload.(Item[string]); ok {
			dropped = append(dropped, item.Data)
		}
	})

	q := New[string](WithMaxSize(1), WithEmitter(emitter), WithLogger(log))
	q.Enqueue("a")
	id := q.Enqueue("b")
	q.Remove(id)
	q.Clear()

	assert.Equal(t, []string{SubjectOverflow, SubjectRemoved, SubjectCleared}, subjects)
	assert.Equal(t, []string{"a", "b"}, dropped)
	assert.Equal(t, 1, log.Count("TRACE"))
}

func TestQueueOverflowSubscriberCanEnqueue(t *testing.T) {
	emitter := eventing.NewEmitter()
	q := New[string](WithMaxSize(2), WithEmitter(emitter))
	emitter.Once(SubjectOverflow, func(ev eventing.Event) {
		assert.Equal(t, "a", ev.Payload.(Item[string]).Data)
		assert.Equal(t, 2, q.Size())
		q.Enqueue("from-callback")
	})
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	assert.Equal(t, 2, q.Size())
	assert.Equal(t, []string{"c", "from-callback"}, q.ToArray())
}
