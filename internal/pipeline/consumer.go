package pipeline

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/buffer"
	"github.com/cenkalti/backoff/v4"
)

type consumer[T any] struct {
	name        string
	ch          *buffer.Channel[T]
	sink        Sink[T]
	batcher     *Batcher[T]
	sinkRetries int
	retry       RetryOptions
	stats       *counters
}

// run drains the channel into the sink until end-of-stream, then flushes
// the final partial batch. ctx must not be cancelled by the stop signal.
func (c *consumer[T]) run(ctx context.Context) {
	for {
		item, err := c.ch.Dequeue()
		if err != nil {
			pending := c.batcher.Len()
			if pending > 0 {
				c.flush(ctx, c.batcher.TakeBatch(), true)
			}
			slog.Info("Channel closed and drained, consumer exiting",
				"pipeline", c.name,
				"final_batch", pending,
				"batches", c.stats.batches.Load(),
				"flushed", c.stats.flushed.Load(),
			)
			return
		}

		c.stats.dequeued.Add(1)
		if c.batcher.Add(item) {
			c.flush(ctx, c.batcher.TakeBatch(), false)
		}
	}
}

// flush hands batch to the sink. A failed batch is logged and dropped.
func (c *consumer[T]) flush(ctx context.Context, batch []T, final bool) {
	if err := c.store(ctx, batch); err != nil {
		c.stats.flushFailures.Add(1)
		lost := c.stats.lost.Add(uint64(len(batch)))
		slog.Error("Error storing batch, records dropped",
			"pipeline", c.name,
			"error", &SinkError{Count: len(batch), Err: err},
			"final", final,
			"lost_total", lost,
		)
		return
	}

	n := c.stats.batches.Add(1)
	c.stats.flushed.Add(uint64(len(batch)))
	slog.Info("Committed batch",
		"pipeline", c.name,
		"count", len(batch),
		"batch", n,
		"final", final,
	)
}

func (c *consumer[T]) store(ctx context.Context, batch []T) error {
	if c.sinkRetries == 0 {
		return c.sink.Store(ctx, batch)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := c.sink.Store(ctx, batch)
		if err != nil {
			slog.Warn("Batch store attempt failed", "pipeline", c.name, "attempt", attempt, "error", err)
		}
		return err
	}
	bo := backoff.WithMaxRetries(newBackOff(c.retry), uint64(c.sinkRetries))
	return backoff.Retry(op, bo)
}
