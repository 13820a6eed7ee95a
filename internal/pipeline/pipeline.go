// Package pipeline moves records from a Source through a bounded buffer into a
// batch Sink.
//
// One producer goroutine acquires records and enqueues them, shedding records
// according to the overflow policy when the buffer stays full. One consumer
// goroutine dequeues records, groups them into fixed-size batches and stores
// each full batch. Stop runs the shutdown protocol: signal the producer, wait
// for it, close the buffer, wait for the consumer to drain it and flush the
// final partial batch.
//
// Cancellation is cooperative. A sink call that blocks delays shutdown by the
// same amount; a failed batch is logged, counted and dropped.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/buffer"
)

type Pipeline[T any] struct {
	cfg    *Config
	source Source[T]
	sink   Sink[T]
	ch     *buffer.Channel[T]
	stats  *counters

	mu             sync.Mutex
	state          State
	cancelProducer context.CancelFunc

	quit         chan struct{}
	producerDone chan struct{}
	consumerDone chan struct{}
	stopped      chan struct{}
	stopOnce     sync.Once
}

func New[T any](source Source[T], sink Sink[T], opts ...PipelineOption) (*Pipeline[T], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Name == "" {
		cfg.Name = defaultName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("pipeline: source is required")
	}
	if sink == nil {
		return nil, errors.New("pipeline: sink is required")
	}

	ch, err := buffer.New[T](cfg.Capacity)
	if err != nil {
		return nil, err
	}

	return &Pipeline[T]{
		cfg:          cfg,
		source:       source,
		sink:         sink,
		ch:           ch,
		stats:        &counters{},
		state:        StateCreated,
		quit:         make(chan struct{}),
		producerDone: make(chan struct{}),
		consumerDone: make(chan struct{}),
		stopped:      make(chan struct{}),
	}, nil
}

// Start launches the producer and consumer goroutines. Cancelling ctx stops
// the pipeline as if Stop was called. Start may be called once.
func (p *Pipeline[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateCreated {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	producerCtx, cancel := context.WithCancel(ctx)
	p.cancelProducer = cancel
	p.setStateLocked(StateRunning)
	p.mu.Unlock()

	slog.Info("🛫 Starting pipeline",
		"pipeline", p.cfg.Name,
		"capacity", p.cfg.Capacity,
		"batch_size", p.cfg.BatchSize,
		"enqueue_timeout", p.cfg.EnqueueTimeout,
		"overflow", p.cfg.Overflow,
	)

	prod := &producer[T]{
		name:    p.cfg.Name,
		source:  p.source,
		ch:      p.ch,
		timeout: p.cfg.EnqueueTimeout,
		policy:  p.cfg.Overflow,
		retry:   p.cfg.Retry,
		stats:   p.stats,
	}
	cons := &consumer[T]{
		name:        p.cfg.Name,
		ch:          p.ch,
		sink:        p.sink,
		batcher:     NewBatcher[T](p.cfg.BatchSize),
		sinkRetries: p.cfg.SinkRetries,
		retry:       p.cfg.Retry,
		stats:       p.stats,
	}

	go func() {
		defer close(p.producerDone)
		if err := prod.run(producerCtx, p.quit); errors.Is(err, ErrSourceDrained) {
			// Stop waits on producerDone, so it must not run on this goroutine.
			go p.Stop()
		}
	}()

	go func() {
		defer close(p.consumerDone)
		cons.run(context.WithoutCancel(ctx))
	}()

	go func() {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping", "pipeline", p.cfg.Name)
			p.Stop()
		case <-p.stopped:
		}
	}()

	return nil
}

// Stop runs the shutdown protocol and blocks until the pipeline is stopped.
// Records already in the buffer are delivered to the sink. Calling Stop again,
// or concurrently, waits for the same shutdown and does nothing else.
//
// Stop must not be called from a Source or Sink: it waits for the goroutine
// making that call. Cancel the Start context instead.
func (p *Pipeline[T]) Stop() {
	p.stopOnce.Do(p.shutdown)
	<-p.stopped
}

func (p *Pipeline[T]) shutdown() {
	p.mu.Lock()
	started := p.state == StateRunning
	p.setStateLocked(StateStopping)
	p.mu.Unlock()

	slog.Info("Stopping pipeline...", "pipeline", p.cfg.Name, "pending", p.ch.Len())

	close(p.quit)
	if started {
		p.cancelProducer()
		<-p.producerDone
	}

	p.ch.Close()
	if started {
		<-p.consumerDone
	}

	p.mu.Lock()
	p.setStateLocked(StateStopped)
	p.mu.Unlock()
	close(p.stopped)

	s := p.stats.snapshot()
	slog.Info("Pipeline stopped",
		"pipeline", p.cfg.Name,
		"acquired", s.Acquired,
		"enqueued", s.Enqueued,
		"dropped", s.Dropped,
		"source_errors", s.SourceErrors,
		"batches", s.Batches,
		"flushed", s.Flushed,
		"flush_failures", s.FlushFailures,
		"lost", s.Lost,
	)
}

// AwaitStopped blocks until the pipeline reaches StateStopped or ctx is done.
func (p *Pipeline[T]) AwaitStopped(ctx context.Context) error {
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the pipeline is stopped.
func (p *Pipeline[T]) Done() <-chan struct{} {
	return p.stopped
}

func (p *Pipeline[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline[T]) Name() string {
	return p.cfg.Name
}

func (p *Pipeline[T]) Stats() Stats {
	s := p.stats.snapshot()
	s.State = p.State().String()
	s.QueueLen = p.ch.Len()
	s.QueueCap = p.ch.Cap()
	return s
}

// Healthy reports whether the pipeline is running.
func (p *Pipeline[T]) Healthy(_ context.Context) bool {
	return p.State() == StateRunning
}

func (p *Pipeline[T]) setStateLocked(next State) {
	if next <= p.state {
		return
	}
	slog.Debug("Pipeline state transition", "pipeline", p.cfg.Name, "from", p.state, "to", next)
	p.state = next
}
