package domain

import (
	"time"

	"github.com/google/uuid"
)

const ReadingDefaultStatus = "unknown"

// Reading is one sensor sample. It is a plain value: copying it copies everything.
type Reading struct {
	ID          uuid.UUID `json:"id"`
	SensorID    int       `json:"sensor_id"`
	Temperature float64   `json:"temp"`
	Status      string    `json:"status"`
	ReadAt      time.Time `json:"read_at"`
}

// WithDefaults fills the identity, status and timestamp left empty by the source.
func (r Reading) WithDefaults(now time.Time) Reading {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReadingDefaultStatus
	}
	if r.ReadAt.IsZero() {
		r.ReadAt = now
	}
	return r
}
