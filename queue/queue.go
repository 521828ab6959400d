package queue

import (
	"slices"
	"sort"
	"time"
)

const (
	SubjectOverflow = "queue.overflow"
	SubjectRemoved  = "queue.removed"
	SubjectCleared  = "queue.cleared"
)

// Item is a queued value with its bookkeeping.
type Item[T any] struct {
	ID         string
	Data       T
	Priority   int
	EnqueuedAt time.Time
}

// Queue orders items by priority, highest first, and by arrival within the
// same priority. With a max size it never grows past that bound: the front
// item is dropped to make room.
type Queue[T any] struct {
	cfg   config
	items []Item[T]
}

// New returns an empty Queue.
func New[T any](opts ...Option) *Queue[T] {
	return &Queue[T]{cfg: applyOptions(opts)}
}

// Enqueue adds data with priority 0 and returns its id.
func (q *Queue[T]) Enqueue(data T) string {
	return q.EnqueueWithPriority(data, 0)
}

// EnqueueWithPriority adds data and returns its id for use with Remove.
func (q *Queue[T]) EnqueueWithPriority(data T, priority int) string {
	var dropped *Item[T]
	if q.IsFull() {
		front := q.items[0]
		dropped = &front
		q.items = slices.Delete(q.items, 0, 1)
		if q.cfg.logger != nil {
			q.cfg.logger.Trace("queue full (%d), dropped %s", q.cfg.maxSize, front.ID)
		}
	}
	item := Item[T]{
		ID:         q.cfg.newID(),
		Data:       data,
		Priority:   priority,
		EnqueuedAt: q.cfg.now(),
	}
	// after every item of equal or higher priority
	i := sort.Search(len(q.items), func(i int) bool {
		return q.items[i].Priority < priority
	})
	q.items = slices.Insert(q.items, i, item)
	// published only once the new item is in place, so a subscriber that
	// enqueues sees a full queue
	if dropped != nil {
		q.publish(SubjectOverflow, *dropped)
	}
	return item.ID
}

// Dequeue removes and returns the front item's data.
func (q *Queue[T]) Dequeue() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = slices.Delete(q.items, 0, 1)
	return item.Data, true
}

// Peek returns the front item's data without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	item, ok := q.PeekItem()
	return item.Data, ok
}

// PeekItem returns the front item without removing it.
func (q *Queue[T]) PeekItem() (Item[T], bool) {
	if len(q.items) == 0 {
		return Item[T]{}, false
	}
	return q.items[0], true
}

// Remove deletes the item with the given id wherever it is queued.
func (q *Queue[T]) Remove(id string) bool {
	i := slices.IndexFunc(q.items, func(item Item[T]) bool {
		return item.ID == id
	})
	if i < 0 {
		return false
	}
	item := q.items[i]
	q.items = slices.Delete(q.items, i, i+1)
	q.publish(SubjectRemoved, item)
	return true
}

func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

// IsFull reports whether the next enqueue will drop the front item. An
// unbounded queue is never full.
func (q *Queue[T]) IsFull() bool {
	return q.cfg.maxSize > 0 && len(q.items) >= q.cfg.maxSize
}

func (q *Queue[T]) Size() int {
	return len(q.items)
}

// Clear removes every item.
func (q *Queue[T]) Clear() {
	n := len(q.items)
	q.items = nil
	q.publish(SubjectCleared, n)
}

// ToArray returns the queued data in dequeue order.
func (q *Queue[T]) ToArray() []T {
	out := make([]T, len(q.items))
	for i, item := range q.items {
		out[i] = item.Data
	}
	return out
}

// Items returns a copy of the queued items in dequeue order.
func (q *Queue[T]) Items() []Item[T] {
	return slices.Clone(q.items)
}

func (q *Queue[T]) publish(subject string, payload any) {
	if q.cfg.emitter != nil {
		q.cfg.emitter.Publish(subject, payload)
	}
}
