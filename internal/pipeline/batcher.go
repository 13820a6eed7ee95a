package pipeline

// Batcher accumulates records into groups of a fixed size.
// It is owned by the consumer goroutine and is not safe for concurrent use.
type Batcher[T any] struct {
	size  int
	items []T
}

func NewBatcher[T any](size int) *Batcher[T] {
	return &Batcher[T]{
		size:  size,
		items: make([]T, 0, size),
	}
}

// Add appends item and reports whether the batch reached its size.
func (b *Batcher[T]) Add(item T) bool {
	b.items = append(b.items, item)
	return len(b.items) >= b.size
}

// TakeBatch returns the pending records and starts a new batch.
// The returned slice is not reused by the Batcher.
func (b *Batcher[T]) TakeBatch() []T {
	batch := b.items
	b.items = make([]T, 0, b.size)
	return batch
}

func (b *Batcher[T]) Len() int {
	return len(b.items)
}
