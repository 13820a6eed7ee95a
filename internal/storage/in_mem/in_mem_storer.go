package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/google/uuid"
)

// InMemStorer keeps every stored batch in memory, in arrival order.
type InMemStorer struct {
	storageLock sync.RWMutex
	batches     [][]domain.Reading
	index       map[uuid.UUID]domain.Reading
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		index: make(map[uuid.UUID]domain.Reading),
	}
}

func (s *InMemStorer) SaveBulk(ctx context.Context, readings []domain.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := make([]domain.Reading, len(readings))
	copy(batch, readings)

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for i, r := range batch {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
			batch[i] = r
		}
		s.index[r.ID] = r
	}
	s.batches = append(s.batches, batch)

	slog.Debug("Saved batch to in-memory storage", "count", len(batch), "total_batches", len(s.batches))
	return nil
}

func (s *InMemStorer) Get(id uuid.UUID) (domain.Reading, bool) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	r, ok := s.index[id]
	return r, ok
}

// Readings returns all stored readings in the order they were saved.
func (s *InMemStorer) Readings() []domain.Reading {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var all []domain.Reading
	for _, b := range s.batches {
		all = append(all, b...)
	}
	return all
}

func (s *InMemStorer) BatchSizes() []int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	sizes := make([]int, len(s.batches))
	for i, b := range s.batches {
		sizes[i] = len(b)
	}
	return sizes
}
