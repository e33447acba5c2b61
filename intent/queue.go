package intent

import "sync"

// Queue is a FIFO of intents. Push may be called from any goroutine; Drain is called once per tick
// by the simulation.
type Queue struct {
	mu      sync.Mutex
	pending []Intent
}

// NewQueue ...
func NewQueue() *Queue {
	return &Queue{pending: make([]Intent, 0, 16)}
}

// Push appends i to the end of the queue.
func (q *Queue) Push(i Intent) {
	q.mu.Lock()
	q.pending = append(q.pending, i)
	q.mu.Unlock()
}

// Drain removes and returns every queued intent in the order they were pushed.
func (q *Queue) Drain() []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = make([]Intent, 0, cap(out))
	return out
}

// Len returns the number of intents waiting for the next drain.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
