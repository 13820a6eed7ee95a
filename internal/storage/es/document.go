package es

import (
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// ReadingDocument is the indexed shape of a reading.
type ReadingDocument struct {
	ID          string    `json:"id"`
	SensorID    int       `json:"sensor_id"`
	Temperature float64   `json:"temperature"`
	Status      string    `json:"status"`
	ReadAt      time.Time `json:"read_at"`
	IndexedAt   time.Time `json:"indexed_at"`
}

func toDocument(r domain.Reading, now time.Time) ReadingDocument {
	r = r.WithDefaults(now)
	return ReadingDocument{
		ID:          r.ID.String(),
		SensorID:    r.SensorID,
		Temperature: r.Temperature,
		Status:      r.Status,
		ReadAt:      r.ReadAt,
		IndexedAt:   now,
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"sensor_id":   types.NewIntegerNumberProperty(),
			"temperature": types.NewDoubleNumberProperty(),
			"status":      types.NewKeywordProperty(),
			"read_at":     types.NewDateProperty(),
			"indexed_at":  types.NewDateProperty(),
		},
	}
}
