package main

import (
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/collector"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/reader"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newSource builds the configured collector. The returned closer releases any
// file or device the collector reads from.
func newSource(cfg SourceConfig) (pipeline.Source[domain.Reading], io.Closer, error) {
	switch cfg.Type {
	case collector.Simulated:
		return collector.NewSimulatedCollector(cfg.Simulated), nopCloser{}, nil

	case collector.CSV:
		mappingFile, err := os.Open(cfg.MappingPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open mapping file: %w", err)
		}
		defer mappingFile.Close()

		mapping, err := reader.NewYAMLConfigLoader(mappingFile).Load(true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load mapping: %w", err)
		}

		dataFile, err := os.Open(cfg.CSVPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open csv file: %w", err)
		}
		c := collector.NewCSVCollector(reader.NewCSVReader(dataFile), reader.NewReadingMapper(mapping))
		return c, dataFile, nil

	case collector.NDJSON:
		c, err := collector.OpenNDJSONCollector(cfg.NDJSONPath)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}
