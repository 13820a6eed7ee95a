package buffer

// ring is a fixed-size circular FIFO. Not safe for concurrent use; Channel guards it.
type ring[T any] struct {
	items []T
	head  int
	size  int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) push(item T) {
	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++
}

func (r *ring[T]) pop() T {
	var zero T
	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.size--
	return item
}

func (r *ring[T]) len() int {
	return r.size
}

func (r *ring[T]) cap() int {
	return len(r.items)
}

func (r *ring[T]) empty() bool {
	return r.size == 0
}

func (r *ring[T]) full() bool {
	return r.size == len(r.items)
}
