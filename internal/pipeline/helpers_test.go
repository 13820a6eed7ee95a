package pipeline

import (
	"context"
	"sync"
)

// sliceSource yields its items in order, then ErrSourceDrained.
type sliceSource struct {
	mu    sync.Mutex
	items []int
	next  int
}

func newSliceSource(n int) *sliceSource {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return &sliceSource{items: items}
}

func (s *sliceSource) Acquire(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.items) {
		return 0, ErrSourceDrained
	}
	v := s.items[s.next]
	s.next++
	return v, nil
}

// feedThenBlock yields n items, then blocks until ctx is cancelled.
func feedThenBlock(n int) Source[int] {
	src := newSliceSource(n)
	return SourceFunc[int](func(ctx context.Context) (int, error) {
		v, err := src.Acquire(ctx)
		if err == nil {
			return v, nil
		}
		<-ctx.Done()
		return 0, ctx.Err()
	})
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]int
	fail    func(call int) error
}

func (s *recordingSink) Store(_ context.Context, batch []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		if err := s.fail(len(s.batches)); err != nil {
			s.batches = append(s.batches, nil)
			return err
		}
	}
	s.batches = append(s.batches, append([]int(nil), batch...))
	return nil
}

func (s *recordingSink) sizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, 0, len(s.batches))
	for _, b := range s.batches {
		sizes = append(sizes, len(b))
	}
	return sizes
}

func (s *recordingSink) records() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []int
	for _, b := range s.batches {
		all = append(all, b...)
	}
	return all
}

func (s *recordingSink) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func sequence(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
