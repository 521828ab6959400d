package queue

import (
	"slices"
	"sort"
)

type prioritized[T any] struct {
	priority int
	data     T
}

// PriorityQueue keeps data sorted by priority, highest first. Items with
// equal priority leave in insertion order.
type PriorityQueue[T any] struct {
	items []prioritized[T]
}

func NewPriority[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

func (q *PriorityQueue[T]) Enqueue(data T, priority int) {
	i := sort.Search(len(q.items), func(i int) bool {
		return q.items[i].priority < priority
	})
	q.items = slices.Insert(q.items, i, prioritized[T]{priority: priority, data: data})
}

func (q *PriorityQueue[T]) Dequeue() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	data := q.items[0].data
	q.items = slices.Delete(q.items, 0, 1)
	return data, true
}

func (q *PriorityQueue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0].data, true
}

func (q *PriorityQueue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

func (q *PriorityQueue[T]) Size() int {
	return len(q.items)
}

func (q *PriorityQueue[T]) Clear() {
	q.items = nil
}

// ToArray returns the data in dequeue order.
func (q *PriorityQueue[T]) ToArray() []T {
	out := make([]T, len(q.items))
	for i, item := range q.items {
		out[i] = item.data
	}
	return out
}
