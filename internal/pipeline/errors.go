package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceDrained is returned by finite sources once they have no more records.
	ErrSourceDrained = errors.New("pipeline: source drained")

	ErrAlreadyStarted = errors.New("pipeline: already started or stopped")
)

// SourceError wraps a transient failure of the source collaborator.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source error: %v", e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// SinkError wraps a failed batch flush. Records of the batch are not retried
// beyond the configured sink retries and count as lost.
type SinkError struct {
	Count int
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error (%d records): %v", e.Count, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
