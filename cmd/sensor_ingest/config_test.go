package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/collector"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENV_PATH", "LOG_LEVEL", "PIPELINE_NAME", "QUEUE_CAPACITY", "BATCH_SIZE", "ENQUEUE_TIMEOUT",
		"OVERFLOW_POLICY", "RETRY_INITIAL", "RETRY_MAX", "SINK_RETRIES", "SOURCE_TYPE", "SOURCE_RATE",
		"SENSOR_ID", "SOURCE_JITTER", "CSV_PATH", "CSV_MAPPING_PATH", "NDJSON_PATH", "STORAGE_TYPE",
		"HTTP_ENABLED", "PORT", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "none.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := (&AppConfig{ENV: "test"}).Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, *pipeline.DefaultConfig(), cfg.Pipeline)
	assert.Equal(t, collector.Simulated, cfg.Source.Type)
	assert.Equal(t, 1.0, cfg.Source.Simulated.Rate)
	assert.Equal(t, storage.Log, cfg.StorageConfig.Type)
	assert.True(t, cfg.Server.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUEUE_CAPACITY", "3")
	t.Setenv("BATCH_SIZE", "2")
	t.Setenv("ENQUEUE_TIMEOUT", "0")
	t.Setenv("OVERFLOW_POLICY", "drop_oldest")
	t.Setenv("SINK_RETRIES", "2")
	t.Setenv("SOURCE_TYPE", "ndjson")
	t.Setenv("NDJSON_PATH", "/tmp/readings.ndjson")
	t.Setenv("STORAGE_TYPE", "in_mem")
	t.Setenv("HTTP_ENABLED", "false")

	cfg, err := (&AppConfig{ENV: "test"}).Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3, cfg.Pipeline.Capacity)
	assert.Equal(t, 2, cfg.Pipeline.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.Pipeline.EnqueueTimeout)
	assert.Equal(t, pipeline.DropOldest, cfg.Pipeline.Overflow)
	assert.Equal(t, 2, cfg.Pipeline.SinkRetries)
	assert.Equal(t, "/tmp/readings.ndjson", cfg.Source.NDJSONPath)
	assert.Equal(t, storage.InMem, cfg.StorageConfig.Type)
	assert.False(t, cfg.Server.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"zero capacity":    {"QUEUE_CAPACITY", "0"},
		"bad batch size":   {"BATCH_SIZE", "ten"},
		"unknown policy":   {"OVERFLOW_POLICY", "block"},
		"unknown source":   {"SOURCE_TYPE", "mqtt"},
		"csv without path": {"SOURCE_TYPE", "csv"},
		"bad log level":    {"LOG_LEVEL", "loud"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := (&AppConfig{ENV: "test"}).Load()
			assert.Error(t, err)
		})
	}
}

func TestNewSource_CSV(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.yaml")
	csvPath := filepath.Join(dir, "readings.csv")

	require.NoError(t, os.WriteFile(mappingPath, []byte(`kind: ReadingMapping
version: v1
metadata:
  name: test
fieldMappings:
  - source: sensor
    target: SensorID
    required: true
  - source: temp
    target: Temperature
    required: true
`), 0o600))
	require.NoError(t, os.WriteFile(csvPath, []byte("sensor,temp\n1,24.5\n2,19.0\n"), 0o600))

	src, closer, err := newSource(SourceConfig{Type: collector.CSV, CSVPath: csvPath, MappingPath: mappingPath})
	require.NoError(t, err)
	defer closer.Close()

	r, err := src.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, r.SensorID)
	assert.Equal(t, 24.5, r.Temperature)

	_, err = src.Acquire(t.Context())
	require.NoError(t, err)

	_, err = src.Acquire(t.Context())
	assert.ErrorIs(t, err, pipeline.ErrSourceDrained)
}

func TestNewSource_MissingMapping(t *testing.T) {
	_, _, err := newSource(SourceConfig{Type: collector.CSV, CSVPath: "x.csv", MappingPath: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}
