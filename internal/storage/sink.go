package storage

import (
	"context"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
)

// AsSink adapts a Storer to the pipeline sink contract.
func AsSink(s Storer) pipeline.Sink[domain.Reading] {
	return pipeline.SinkFunc[domain.Reading](func(ctx context.Context, batch []domain.Reading) error {
		return s.SaveBulk(ctx, batch)
	})
}
