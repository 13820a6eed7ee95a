package buffer

import "errors"

var (
	// ErrFull is returned when the channel stays at capacity for the whole enqueue wait.
	ErrFull = errors.New("buffer: channel full")

	// ErrClosed is returned by Enqueue after Close, and by Dequeue once the
	// channel is closed and drained (end-of-stream).
	ErrClosed = errors.New("buffer: channel closed")

	// ErrEmpty is returned by TryDequeue when no record is buffered.
	ErrEmpty = errors.New("buffer: channel empty")

	ErrInvalidCapacity = errors.New("buffer: capacity must be positive")
)
