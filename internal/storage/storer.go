package storage

import (
	"context"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
)

// Storer persists one batch of readings. Implementations treat the batch as a
// unit from the caller's point of view: a returned error means the batch failed.
type Storer interface {
	SaveBulk(ctx context.Context, readings []domain.Reading) error
}

type Type string

const (
	InMem Type = "in_mem"
	Log   Type = "log"
	File  Type = "file"
	PG    Type = "pg"
	ES    Type = "es"
)

var Types = []Type{InMem, Log, File, PG, ES}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
