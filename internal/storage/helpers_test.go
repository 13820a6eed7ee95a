package storage

import (
	"context"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
)

type storerFunc func(readings []domain.Reading)

func (f storerFunc) SaveBulk(_ context.Context, readings []domain.Reading) error {
	f(readings)
	return nil
}
