package storage

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
)

// LogStorer only logs each batch. Useful for dry runs and demos.
type LogStorer struct {
	logger *slog.Logger
}

func NewLogStorer(logger *slog.Logger) *LogStorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogStorer{logger: logger}
}

func (s *LogStorer) SaveBulk(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	s.logger.InfoContext(ctx, "Committed records",
		"count", len(readings),
		"first_id", readings[0].ID,
		"last_read_at", readings[len(readings)-1].ReadAt,
	)
	return nil
}
