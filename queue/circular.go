package queue

import "github.com/cockroachdb/errors"

// ErrInvalidCapacity is returned by NewCircular for a non-positive capacity.
var ErrInvalidCapacity = errors.New("queue: capacity must be positive")

// CircularQueue is a fixed capacity ring buffer. Unlike Queue it never drops
// items: Enqueue on a full buffer fails.
type CircularQueue[T any] struct {
	buf   []T
	front int
	rear  int
	count int
}

// NewCircular returns an empty ring buffer holding up to capacity items.
func NewCircular[T any](capacity int) (*CircularQueue[T], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "circular queue capacity %d", capacity)
	}
	return &CircularQueue[T]{buf: make([]T, capacity)}, nil
}

// Enqueue appends item and returns false without changes when full.
func (q *CircularQueue[T]) Enqueue(item T) bool {
	if q.count == len(q.buf) {
		return false
	}
	q.buf[q.rear] = item
	q.rear = (q.rear + 1) % len(q.buf)
	q.count++
	return true
}

// Dequeue removes and returns the oldest item.
func (q *CircularQueue[T]) Dequeue() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}
	item := q.buf[q.front]
	q.buf[q.front] = zero // release the reference
	q.front = (q.front + 1) % len(q.buf)
	q.count--
	return item, true
}

func (q *CircularQueue[T]) Peek() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.front], true
}

func (q *CircularQueue[T]) IsEmpty() bool {
	return q.count == 0
}

func (q *CircularQueue[T]) IsFull() bool {
	return q.count == len(q.buf)
}

func (q *CircularQueue[T]) Size() int {
	return q.count
}

func (q *CircularQueue[T]) Capacity() int {
	return len(q.buf)
}

// Clear empties the buffer and resets its indices.
func (q *CircularQueue[T]) Clear() {
	clear(q.buf)
	q.front, q.rear, q.count = 0, 0, 0
}

// ToArray returns the items from front to rear.
func (q *CircularQueue[T]) ToArray() []T {
	out := make([]T, q.count)
	for i := range q.count {
		out[i] = q.buf[(q.front+i)%len(q.buf)]
	}
	return out
}
