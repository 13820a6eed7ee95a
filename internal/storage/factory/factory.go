package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/es"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/pg"
	"github.com/DjordjeVuckovic/sensor-buffer/pkg/server"
)

// Backend is a ready storer plus what the process needs to watch and release it.
type Backend struct {
	Storer storage.Storer
	Health server.HealthChecker
	close  func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// NewStorer creates the storage backend selected by cfg.Type.
func NewStorer(ctx context.Context, cfg StorageConfig) (*Backend, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		storer, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Storer: storer,
			Health: pg.NewHealthChecker(pool),
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		storer, err := es.NewStorer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return &Backend{Storer: storer, Health: storer}, nil

	case storage.File:
		storer, err := storage.NewJsonFileStorer(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Storer: storer,
			Health: server.NewOkHealthChecker(),
			close:  storer.Close,
		}, nil

	case storage.InMem:
		return &Backend{Storer: in_mem.NewInMemStorer(), Health: server.NewOkHealthChecker()}, nil

	case storage.Log:
		return &Backend{Storer: storage.NewLogStorer(nil), Health: server.NewOkHealthChecker()}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
