package pipeline

import "sync/atomic"

// counters are updated by the producer and consumer goroutines and read
// lock-free by Stats.
type counters struct {
	acquired      atomic.Uint64
	enqueued      atomic.Uint64
	dropped       atomic.Uint64
	sourceErrors  atomic.Uint64
	dequeued      atomic.Uint64
	batches       atomic.Uint64
	flushed       atomic.Uint64
	flushFailures atomic.Uint64
	lost          atomic.Uint64
}

// Stats is a point-in-time snapshot of pipeline activity.
// Individual counters are read atomically but not as one consistent cut.
type Stats struct {
	State         string `json:"state"`
	QueueLen      int    `json:"queue_len"`
	QueueCap      int    `json:"queue_cap"`
	Acquired      uint64 `json:"acquired"`
	Enqueued      uint64 `json:"enqueued"`
	Dropped       uint64 `json:"dropped"`
	SourceErrors  uint64 `json:"source_errors"`
	Dequeued      uint64 `json:"dequeued"`
	Batches       uint64 `json:"batches"`
	Flushed       uint64 `json:"flushed"`
	FlushFailures uint64 `json:"flush_failures"`
	Lost          uint64 `json:"lost"`
}

func (c *counters) snapshot() Stats {
	return Stats{
		Acquired:      c.acquired.Load(),
		Enqueued:      c.enqueued.Load(),
		Dropped:       c.dropped.Load(),
		SourceErrors:  c.sourceErrors.Load(),
		Dequeued:      c.dequeued.Load(),
		Batches:       c.batches.Load(),
		Flushed:       c.flushed.Load(),
		FlushFailures: c.flushFailures.Load(),
		Lost:          c.lost.Load(),
	}
}
