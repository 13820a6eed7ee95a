package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducer(t *testing.T, src Source[int], capacity int, policy OverflowPolicy) (*producer[int], *buffer.Channel[int]) {
	t.Helper()
	ch, err := buffer.New[int](capacity)
	require.NoError(t, err)
	return &producer[int]{
		name:    "test",
		source:  src,
		ch:      ch,
		timeout: 5 * time.Millisecond,
		policy:  policy,
		retry:   RetryOptions{Initial: time.Millisecond, Max: 5 * time.Millisecond},
		stats:   &counters{},
	}, ch
}

func drain(ch *buffer.Channel[int]) []int {
	var out []int
	for {
		v, err := ch.TryDequeue()
		if err != nil {
			return out
		}
		out = append(out, v)
	}
}

func TestProducer_DropNewestOnOverflow(t *testing.T) {
	p, ch := newTestProducer(t, newSliceSource(5), 3, DropNewest)

	err := p.run(t.Context(), make(chan struct{}))

	assert.ErrorIs(t, err, ErrSourceDrained)
	assert.Equal(t, uint64(2), p.stats.dropped.Load())
	assert.Equal(t, uint64(3), p.stats.enqueued.Load())
	assert.Equal(t, uint64(5), p.stats.acquired.Load())
	assert.Equal(t, []int{1, 2, 3}, drain(ch))
}

func TestProducer_DropOldestOnOverflow(t *testing.T) {
	p, ch := newTestProducer(t, newSliceSource(5), 3, DropOldest)

	err := p.run(t.Context(), make(chan struct{}))

	assert.ErrorIs(t, err, ErrSourceDrained)
	assert.Equal(t, uint64(2), p.stats.dropped.Load())
	assert.Equal(t, []int{3, 4, 5}, drain(ch))
}

func TestProducer_RetriesSourceErrors(t *testing.T) {
	failures := 3
	inner := newSliceSource(2)
	src := SourceFunc[int](func(ctx context.Context) (int, error) {
		if failures > 0 {
			failures--
			return 0, errors.New("serial port unavailable")
		}
		return inner.Acquire(ctx)
	})
	p, ch := newTestProducer(t, src, 10, DropNewest)

	err := p.run(t.Context(), make(chan struct{}))

	assert.ErrorIs(t, err, ErrSourceDrained)
	assert.Equal(t, uint64(3), p.stats.sourceErrors.Load())
	assert.Equal(t, []int{1, 2}, drain(ch))
}

func TestProducer_StopsOnQuit(t *testing.T) {
	src := SourceFunc[int](func(ctx context.Context) (int, error) {
		return 1, nil
	})
	p, ch := newTestProducer(t, src, 1000, DropNewest)
	quit := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- p.run(t.Context(), quit)
	}()

	require.Eventually(t, func() bool { return ch.Len() > 0 }, time.Second, time.Millisecond)
	close(quit)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not stop")
	}
	assert.False(t, ch.Closed())
}

func TestProducer_StopsWhileRetrying(t *testing.T) {
	src := SourceFunc[int](func(ctx context.Context) (int, error) {
		return 0, errors.New("down")
	})
	p, _ := newTestProducer(t, src, 1, DropNewest)
	p.retry = RetryOptions{Initial: time.Minute, Max: time.Minute}
	quit := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- p.run(t.Context(), quit)
	}()

	require.Eventually(t, func() bool { return p.stats.sourceErrors.Load() == 1 }, time.Second, time.Millisecond)
	close(quit)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not stop during backoff")
	}
}

func TestProducer_ExitsWhenContextCancelled(t *testing.T) {
	p, _ := newTestProducer(t, feedThenBlock(0), 1, DropNewest)
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- p.run(ctx, make(chan struct{}))
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not exit after cancel")
	}
	assert.Zero(t, p.stats.sourceErrors.Load())
}
