package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/apperr"
)

const (
	defaultName           = "sensor-pipeline"
	defaultCapacity       = 1000
	defaultBatchSize      = 50
	defaultEnqueueTimeout = time.Second
	defaultRetryInitial   = 100 * time.Millisecond
	defaultRetryMax       = 5 * time.Second
)

// OverflowPolicy decides which record is shed when the channel stays full
// for the whole enqueue timeout.
type OverflowPolicy string

const (
	// DropNewest discards the incoming record and leaves the buffer untouched.
	DropNewest OverflowPolicy = "drop_newest"
	// DropOldest evicts the head of the buffer and enqueues the incoming record.
	DropOldest OverflowPolicy = "drop_oldest"
)

func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DropNewest, DropOldest:
		return p, nil
	case "":
		return DropNewest, nil
	default:
		return "", apperr.NewFieldValidation("overflow",
			fmt.Sprintf("unknown policy %q, expected one of %v", s, []OverflowPolicy{DropNewest, DropOldest}))
	}
}

// RetryOptions bound the exponential delay between failed source acquires
// and between sink retries.
type RetryOptions struct {
	Initial time.Duration
	Max     time.Duration
}

// Config is static pipeline configuration, fixed at construction.
type Config struct {
	Name           string
	Capacity       int
	BatchSize      int
	EnqueueTimeout time.Duration
	Overflow       OverflowPolicy
	Retry          RetryOptions
	// SinkRetries is how many times a failed batch is re-sent before it is dropped.
	SinkRetries int
}

func DefaultConfig() *Config {
	return &Config{
		Name:           defaultName,
		Capacity:       defaultCapacity,
		BatchSize:      defaultBatchSize,
		EnqueueTimeout: defaultEnqueueTimeout,
		Overflow:       DropNewest,
		Retry: RetryOptions{
			Initial: defaultRetryInitial,
			Max:     defaultRetryMax,
		},
	}
}

func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return apperr.NewFieldValidation("capacity", "must be positive")
	}
	if c.BatchSize <= 0 {
		return apperr.NewFieldValidation("batch_size", "must be positive")
	}
	if c.EnqueueTimeout < 0 {
		return apperr.NewFieldValidation("enqueue_timeout", "must not be negative")
	}
	if _, err := ParseOverflowPolicy(string(c.Overflow)); err != nil {
		return err
	}
	if c.Retry.Initial <= 0 || c.Retry.Max < c.Retry.Initial {
		return apperr.NewFieldValidation("retry", "initial must be positive and not above max")
	}
	if c.SinkRetries < 0 {
		return apperr.NewFieldValidation("sink_retries", "must not be negative")
	}
	return nil
}

type PipelineOption func(cfg *Config)

func WithName(name string) PipelineOption {
	return func(cfg *Config) {
		cfg.Name = name
	}
}

func WithCapacity(capacity int) PipelineOption {
	return func(cfg *Config) {
		cfg.Capacity = capacity
	}
}

func WithBatchSize(size int) PipelineOption {
	return func(cfg *Config) {
		cfg.BatchSize = size
	}
}

// WithEnqueueTimeout sets how long the producer waits for space before
// applying the overflow policy. Zero means no wait.
func WithEnqueueTimeout(timeout time.Duration) PipelineOption {
	return func(cfg *Config) {
		cfg.EnqueueTimeout = timeout
	}
}

func WithOverflowPolicy(policy OverflowPolicy) PipelineOption {
	return func(cfg *Config) {
		cfg.Overflow = policy
	}
}

func WithRetryBackoff(initial, max time.Duration) PipelineOption {
	return func(cfg *Config) {
		cfg.Retry = RetryOptions{Initial: initial, Max: max}
	}
}

func WithSinkRetries(n int) PipelineOption {
	return func(cfg *Config) {
		cfg.SinkRetries = n
	}
}

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(config Config) PipelineOption {
	return func(cfg *Config) {
		*cfg = config
	}
}
