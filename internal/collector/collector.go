// Package collector holds the source side of the ingest pipeline: collaborators
// that acquire sensor readings one at a time.
package collector

import (
	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
)

var (
	_ pipeline.Source[domain.Reading] = (*SimulatedCollector)(nil)
	_ pipeline.Source[domain.Reading] = (*CSVCollector)(nil)
	_ pipeline.Source[domain.Reading] = (*NDJSONCollector)(nil)
)

type Type string

const (
	Simulated Type = "simulated"
	CSV       Type = "csv"
	NDJSON    Type = "ndjson"
)
