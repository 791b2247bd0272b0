// Package queue provides the unbounded multi-consumer line queue that sits
// between the dispatcher and the worker pool.
package queue

import (
	"errors"
	"sync"

	"github.com/atikulmunna/logtally/internal/model"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("queue: send on closed queue")

// Queue is an unbounded FIFO of raw lines. Send never blocks; Recv blocks
// until a line is available or the queue is closed and drained.
// There is no backpressure: a producer faster than its consumers grows the
// queue without limit.
type Queue struct {
	mu     sync.Mutex
	ready  *sync.Cond
	items  []model.RawLine
	head   int
	closed bool
}

// New creates an empty, open queue.
func New() *Queue {
	q := &Queue{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Send appends a line and wakes one waiting receiver.
func (q *Queue) Send(line model.RawLine) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, line)
	q.ready.Signal()
	return nil
}

// Recv removes and returns the oldest line. ok is false once the queue has
// been closed and every line sent before Close has been received.
func (q *Queue) Recv() (line model.RawLine, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && !q.closed {
		q.ready.Wait()
	}
	if q.head == len(q.items) {
		return model.RawLine{}, false
	}

	line = q.items[q.head]
	q.items[q.head] = model.RawLine{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return line, true
}

// Close marks the end of input and releases every blocked receiver.
// Lines already queued are still delivered. Closing twice is a no-op.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.ready.Broadcast()
}

// Len returns the number of lines waiting to be received.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
