package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/buffer"
	"github.com/cenkalti/backoff/v4"
)

type producer[T any] struct {
	name    string
	source  Source[T]
	ch      *buffer.Channel[T]
	timeout time.Duration
	policy  OverflowPolicy
	retry   RetryOptions
	stats   *counters
}

// run acquires records until quit is closed or the source is drained.
// Source failures are logged and retried with exponential backoff forever.
// The producer never closes the channel.
func (p *producer[T]) run(ctx context.Context, quit <-chan struct{}) error {
	bo := newBackOff(p.retry)

	for {
		select {
		case <-quit:
			slog.Info("Producer received stop signal", "pipeline", p.name)
			return nil
		default:
		}

		item, err := p.source.Acquire(ctx)
		if err != nil {
			if errors.Is(err, ErrSourceDrained) {
				slog.Info("Source drained, producer exiting", "pipeline", p.name)
				return ErrSourceDrained
			}
			if ctx.Err() != nil {
				slog.Info("Producer context cancelled", "pipeline", p.name)
				return nil
			}

			p.stats.sourceErrors.Add(1)
			wait := bo.NextBackOff()
			slog.Error("Error acquiring record",
				"pipeline", p.name,
				"error", &SourceError{Err: err},
				"retry_in", wait,
			)
			if !sleep(wait, quit) {
				return nil
			}
			continue
		}
		bo.Reset()
		p.stats.acquired.Add(1)

		if err := p.offer(item); err != nil {
			slog.Warn("Channel closed while producer running, exiting", "pipeline", p.name, "error", err)
			return nil
		}
	}
}

// offer enqueues item, applying the overflow policy when the channel stays full.
func (p *producer[T]) offer(item T) error {
	err := p.ch.Enqueue(item, p.timeout)
	switch {
	case err == nil:
		p.stats.enqueued.Add(1)
		return nil
	case !errors.Is(err, buffer.ErrFull):
		return err
	}

	if p.policy == DropOldest {
		_, evicted, err := p.ch.EnqueueEvict(item)
		if err != nil {
			return err
		}
		p.stats.enqueued.Add(1)
		if evicted {
			dropped := p.stats.dropped.Add(1)
			slog.Warn("Queue overflow, dropped oldest record",
				"pipeline", p.name,
				"capacity", p.ch.Cap(),
				"dropped_total", dropped,
			)
		}
		return nil
	}

	dropped := p.stats.dropped.Add(1)
	slog.Warn("Queue overflow, dropped incoming record",
		"pipeline", p.name,
		"capacity", p.ch.Cap(),
		"dropped_total", dropped,
	)
	return nil
}

// newBackOff never gives up on its own; callers bound it.
func newBackOff(r RetryOptions) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.Initial
	bo.MaxInterval = r.Max
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// sleep waits for d and reports false if quit closed first.
func sleep(d time.Duration, quit <-chan struct{}) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-quit:
		return false
	}
}
