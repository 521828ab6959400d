// Package queue provides three in-memory queues: [Queue], a priority-aware
// FIFO with optional capacity and removal by id; [PriorityQueue], a plain
// priority-ordered queue; and [CircularQueue], a fixed capacity ring buffer
// that rejects items when full instead of dropping them.
//
// Empty and full conditions are reported through ok/bool results, never
// errors or panics. None of the types lock.
package queue
