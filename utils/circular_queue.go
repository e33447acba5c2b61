package utils

import (
	"iter"

	"github.com/oomph-ac/kinematic/assert"
)

// CircularQueue is a fixed capacity ring that overwrites its oldest item once full.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

// NewCircularQueue creates a queue holding at most capacity items.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	assert.IsTrue(capacity > 0, "circular queue capacity must be positive, got %d", capacity)
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Append adds item, dropping the oldest element if the queue is full.
func (q *CircularQueue[T]) Append(item T) {
	q.items[q.tail] = item
	if q.size == len(q.items) {
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.size++
	}
	q.tail = (q.tail + 1) % len(q.items)
}

// Pop removes and returns the oldest element. The boolean ok is false if the
// queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	item = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Iter yields the items from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Values copies the items from oldest to newest into a new slice.
func (q *CircularQueue[T]) Values() []T {
	out := make([]T, 0, q.size)
	for item := range q.Iter() {
		out = append(out, item)
	}
	return out
}

// Len returns the number of items currently held.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Full reports whether the next Append will drop an item.
func (q *CircularQueue[T]) Full() bool {
	return q.size == len(q.items)
}
