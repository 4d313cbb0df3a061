package channel

import (
	"iter"
	"sync"
)

// Queue is an unbounded FIFO channel. A slow observer makes it grow without
// limit; use Ring to bound memory use.
type Queue[T any] struct {
	mutex  sync.Mutex
	items  []T
	closed bool
}

var _ Channel[int] = (*Queue[int])(nil)

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Send appends a message to the queue.
// Returns ErrChannelClosed if the queue has been closed.
func (queue *Queue[T]) Send(value T) (err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if queue.closed {
		err = ErrChannelClosed
		return
	}

	queue.items = append(queue.items, value)

	return
}

// Poll removes the oldest message from the queue.
func (queue *Queue[T]) Poll() (value T, ok bool) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if len(queue.items) == 0 {
		return
	}

	var zero T
	value = queue.items[0]
	queue.items[0] = zero
	queue.items = queue.items[1:]
	ok = true

	// Release the backing array once drained.
	if len(queue.items) == 0 {
		queue.items = nil
	}

	return
}

// Receive returns an iterator that drains the queue.
func (queue *Queue[T]) Receive() iter.Seq[T] {
	return drain[T](queue)
}

// Len returns the number of queued messages.
func (queue *Queue[T]) Len() int {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	return len(queue.items)
}

// Close refuses any further messages.
func (queue *Queue[T]) Close() {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.closed = true
}
