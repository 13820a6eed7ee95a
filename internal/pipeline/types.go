package pipeline

import "context"

// Source acquires records from an external producer (sensor feed, file replay, ...).
// Acquire may block. The context is cancelled when the pipeline stops; sources
// that cannot observe it delay shutdown until their current read returns.
// Returning ErrSourceDrained tells the pipeline no more records will come.
type Source[T any] interface {
	Acquire(ctx context.Context) (T, error)
}

// Sink stores one batch of records. The batch is never empty and is owned by
// the sink once passed. From the pipeline's point of view a batch either
// succeeds or fails as a whole.
type Sink[T any] interface {
	Store(ctx context.Context, batch []T) error
}

type SourceFunc[T any] func(ctx context.Context) (T, error)

func (f SourceFunc[T]) Acquire(ctx context.Context) (T, error) {
	return f(ctx)
}

type SinkFunc[T any] func(ctx context.Context, batch []T) error

func (f SinkFunc[T]) Store(ctx context.Context, batch []T) error {
	return f(ctx, batch)
}

// State is the lifecycle phase of a Pipeline.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
