package collector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/reader"
)

// CSVCollector replays readings from a CSV file through a column mapping.
// It reports pipeline.ErrSourceDrained after the last row.
type CSVCollector struct {
	Reader *reader.CSVReader
	Mapper reader.Mapper
	now    func() time.Time
}

func NewCSVCollector(r *reader.CSVReader, mapper reader.Mapper) *CSVCollector {
	return &CSVCollector{
		Reader: r,
		Mapper: mapper,
		now:    time.Now,
	}
}

func (c *CSVCollector) Acquire(ctx context.Context) (domain.Reading, error) {
	if err := ctx.Err(); err != nil {
		return domain.Reading{}, err
	}

	record, err := c.Reader.Next()
	if errors.Is(err, io.EOF) {
		slog.Info("CSV replay finished")
		return domain.Reading{}, pipeline.ErrSourceDrained
	}
	if err != nil {
		return domain.Reading{}, err
	}

	reading, err := c.Mapper.Map(record)
	if err != nil {
		return domain.Reading{}, err
	}
	return reading.WithDefaults(c.now()), nil
}
