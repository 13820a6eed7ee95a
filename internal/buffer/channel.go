// Package buffer provides a bounded, thread-safe FIFO used to decouple a fast
// producer from a slower batch consumer.
package buffer

import (
	"sync"
	"time"
)

// Channel is a fixed-capacity FIFO queue shared between one producer and one consumer.
// All synchronization is internal; callers never lock anything.
type Channel[T any] struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond

	items  *ring[T]
	closed bool
}

func New[T any](capacity int) (*Channel[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	c := &Channel[T]{items: newRing[T](capacity)}
	c.notEmpty.L = &c.mu
	c.notFull.L = &c.mu
	return c, nil
}

// Enqueue appends item, waiting up to timeout for free space.
// It returns ErrFull if the channel is still at capacity when the timeout elapses,
// and ErrClosed if the channel is closed before or during the wait.
// A non-positive timeout makes Enqueue behave like TryEnqueue.
func (c *Channel[T]) Enqueue(item T, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.items.full() {
		if timeout <= 0 {
			return ErrFull
		}

		expired := false
		timer := time.AfterFunc(timeout, func() {
			c.mu.Lock()
			expired = true
			c.notFull.Broadcast()
			c.mu.Unlock()
		})
		defer timer.Stop()

		for c.items.full() && !c.closed && !expired {
			c.notFull.Wait()
		}
		if c.closed {
			return ErrClosed
		}
		if c.items.full() {
			return ErrFull
		}
	}

	c.items.push(item)
	c.notEmpty.Signal()
	return nil
}

// TryEnqueue appends item without waiting.
func (c *Channel[T]) TryEnqueue(item T) error {
	return c.Enqueue(item, 0)
}

// EnqueueEvict appends item, evicting the oldest buffered record when the
// channel is full. Eviction and insertion happen under the same lock, so the
// length never exceeds capacity. The evicted record is returned with ok=true.
func (c *Channel[T]) EnqueueEvict(item T) (evicted T, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return evicted, false, ErrClosed
	}

	if c.items.full() {
		evicted = c.items.pop()
		ok = true
	}
	c.items.push(item)
	c.notEmpty.Signal()
	return evicted, ok, nil
}

// Dequeue removes and returns the oldest record, blocking until one is
// available. Once the channel is closed and empty it returns ErrClosed.
func (c *Channel[T]) Dequeue() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.items.empty() && !c.closed {
		c.notEmpty.Wait()
	}
	if c.items.empty() {
		var zero T
		return zero, ErrClosed
	}

	item := c.items.pop()
	c.notFull.Signal()
	return item, nil
}

// TryDequeue removes the oldest record without waiting. It returns ErrEmpty
// when nothing is buffered and ErrClosed when the channel is closed and drained.
func (c *Channel[T]) TryDequeue() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.items.empty() {
		if c.closed {
			return zero, ErrClosed
		}
		return zero, ErrEmpty
	}

	item := c.items.pop()
	c.notFull.Signal()
	return item, nil
}

// Close marks the channel closed and wakes every blocked caller.
// Buffered records stay available to Dequeue. Closing twice is a no-op.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

func (c *Channel[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.len()
}

func (c *Channel[T]) Cap() int {
	return c.items.cap()
}
