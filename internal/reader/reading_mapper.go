package reader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/pkg/apis"
	"github.com/google/uuid"
)

type Mapper interface {
	Map(record map[string]string) (domain.Reading, error)
}

type ReadingMapper struct {
	cfg *apis.ReadingMapping
}

func NewReadingMapper(cfg *apis.ReadingMapping) *ReadingMapper {
	return &ReadingMapper{
		cfg: cfg,
	}
}

// Map converts one row into a Reading. Empty or unparsable optional columns
// are skipped; a required column that is missing or invalid fails the row.
func (m *ReadingMapper) Map(record map[string]string) (domain.Reading, error) {
	var reading domain.Reading

	for _, fm := range m.cfg.FieldMappings {
		raw, ok := record[fm.Source]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			if fm.Required {
				return domain.Reading{}, &apis.MappingError{Message: "missing source field: " + fm.Source}
			}
			continue
		}

		if err := m.set(&reading, fm.Target, raw); err != nil && fm.Required {
			return domain.Reading{}, &apis.MappingError{Message: fmt.Sprintf("field %s: %v", fm.Source, err)}
		}
	}

	return reading, nil
}

func (m *ReadingMapper) set(r *domain.Reading, target, raw string) error {
	switch target {
	case apis.TargetID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		r.ID = id
	case apis.TargetSensorID:
		id, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		r.SensorID = id
	case apis.TargetTemperature:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		r.Temperature = v
	case apis.TargetStatus:
		r.Status = raw
	case apis.TargetReadAt:
		at, err := time.Parse(m.cfg.Layout(), raw)
		if err != nil {
			return err
		}
		r.ReadAt = at
	default:
		return fmt.Errorf("unknown target %q", target)
	}
	return nil
}
