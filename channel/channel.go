// Package channel provides ordered message channels between the emulator
// and its observers. It includes an unbounded queue (Queue), and a bounded
// queue that discards the oldest message when full (Ring).
//
// The producer never blocks. Observers drain at their own cadence, from
// any goroutine.
package channel

import (
	"iter"
)

// Channel defines the interface for all observation channels.
// Messages are received in the order they were sent.
type Channel[T any] interface {
	// Send enqueues a message.
	Send(value T) error
	// Poll dequeues the oldest message, if any.
	Poll() (value T, ok bool)
	// Receive returns an iterator that drains the queued messages without blocking.
	Receive() iter.Seq[T]
	// Len returns the number of queued messages.
	Len() int
	// Close refuses any further messages. Queued messages can still be received.
	Close()
}

// drain returns an iterator polling a channel until it is empty.
func drain[T any](ch Channel[T]) iter.Seq[T] {
	return func(yield func(value T) bool) {
		for {
			value, ok := ch.Poll()
			if !ok {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}
