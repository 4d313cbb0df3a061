package channel

import (
	"iter"
	"sync"
)

// RING_DEFAULT_CAPACITY is the default capacity, in messages, for a new ring.
const RING_DEFAULT_CAPACITY = 1024

// Ring is a bounded FIFO channel. When full, sending a message discards the
// oldest queued message, so the producer is never held back by the observer.
type Ring[T any] struct {
	mutex sync.Mutex

	data      []T
	readIndex int // Index of the oldest message.
	count     int // Number of queued messages.
	dropped   uint64
	closed    bool
}

var _ Channel[int] = (*Ring[int])(nil)

// NewRing creates a ring holding up to capacity messages.
// Returns ErrCapacity if capacity is not positive.
func NewRing[T any](capacity int) (ring *Ring[T], err error) {
	if capacity <= 0 {
		err = ErrCapacity
		return
	}

	ring = &Ring[T]{
		data: make([]T, capacity),
	}

	return
}

// Cap returns the capacity of the ring.
func (ring *Ring[T]) Cap() int {
	return len(ring.data)
}

// Send writes a message at the current write position, discarding the
// oldest message if the ring is full.
// Returns ErrChannelClosed if the ring has been closed.
func (ring *Ring[T]) Send(value T) (err error) {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	if ring.closed {
		err = ErrChannelClosed
		return
	}

	if ring.count == len(ring.data) {
		var zero T
		ring.data[ring.readIndex] = zero
		ring.readIndex = (ring.readIndex + 1) % len(ring.data)
		ring.count--
		ring.dropped++
	}

	writeIndex := (ring.readIndex + ring.count) % len(ring.data)
	ring.data[writeIndex] = value
	ring.count++

	return
}

// Poll removes the oldest message from the ring.
func (ring *Ring[T]) Poll() (value T, ok bool) {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	if ring.count == 0 {
		return
	}

	var zero T
	value = ring.data[ring.readIndex]
	ring.data[ring.readIndex] = zero
	ring.readIndex = (ring.readIndex + 1) % len(ring.data)
	ring.count--
	ok = true

	return
}

// Receive returns an iterator that drains the ring.
func (ring *Ring[T]) Receive() iter.Seq[T] {
	return drain[T](ring)
}

// Len returns the number of queued messages.
func (ring *Ring[T]) Len() int {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	return ring.count
}

// Dropped returns the number of messages discarded because the ring was full.
func (ring *Ring[T]) Dropped() uint64 {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	return ring.dropped
}

// Close refuses any further messages.
func (ring *Ring[T]) Close() {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	ring.closed = true
}
