package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/api/server"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/collector"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/factory"
	"github.com/DjordjeVuckovic/sensor-buffer/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type SourceConfig struct {
	Type        collector.Type
	Simulated   collector.SimulatedConfig
	CSVPath     string
	MappingPath string
	NDJSONPath  string
}

type SensorIngestConfig struct {
	LogLevel slog.Level
	Pipeline pipeline.Config
	Source   SourceConfig
	Server   *server.Config
	factory.StorageConfig
}

func (as *AppConfig) Load() (*SensorIngestConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/sensor_ingest/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(env.String("LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	pipelineCfg, err := loadPipelineConfig()
	if err != nil {
		return nil, err
	}

	sourceCfg, err := loadSourceConfig()
	if err != nil {
		return nil, err
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	serverCfg, err := server.LoadConfig()
	if err != nil {
		return nil, err
	}

	return &SensorIngestConfig{
		LogLevel:      level,
		Pipeline:      *pipelineCfg,
		Source:        *sourceCfg,
		Server:        serverCfg,
		StorageConfig: *storageCfg,
	}, nil
}

func loadPipelineConfig() (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	var err error

	cfg.Name = env.String("PIPELINE_NAME", cfg.Name)
	if cfg.Capacity, err = env.Int("QUEUE_CAPACITY", cfg.Capacity); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = env.Int("BATCH_SIZE", cfg.BatchSize); err != nil {
		return nil, err
	}
	if cfg.EnqueueTimeout, err = env.Duration("ENQUEUE_TIMEOUT", cfg.EnqueueTimeout); err != nil {
		return nil, err
	}
	if cfg.Overflow, err = pipeline.ParseOverflowPolicy(os.Getenv("OVERFLOW_POLICY")); err != nil {
		return nil, err
	}
	if cfg.Retry.Initial, err = env.Duration("RETRY_INITIAL", cfg.Retry.Initial); err != nil {
		return nil, err
	}
	if cfg.Retry.Max, err = env.Duration("RETRY_MAX", cfg.Retry.Max); err != nil {
		return nil, err
	}
	if cfg.SinkRetries, err = env.Int("SINK_RETRIES", cfg.SinkRetries); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSourceConfig() (*SourceConfig, error) {
	cfg := &SourceConfig{
		Type: collector.Type(strings.ToLower(env.String("SOURCE_TYPE", string(collector.Simulated)))),
	}

	switch cfg.Type {
	case collector.Simulated:
		var err error
		if cfg.Simulated.Rate, err = env.Float("SOURCE_RATE", 1); err != nil {
			return nil, err
		}
		if cfg.Simulated.SensorID, err = env.Int("SENSOR_ID", 0); err != nil {
			return nil, err
		}
		if cfg.Simulated.Jitter, err = env.Float("SOURCE_JITTER", 0); err != nil {
			return nil, err
		}

	case collector.CSV:
		cfg.CSVPath = os.Getenv("CSV_PATH")
		cfg.MappingPath = os.Getenv("CSV_MAPPING_PATH")
		if cfg.CSVPath == "" || cfg.MappingPath == "" {
			return nil, fmt.Errorf("CSV_PATH and CSV_MAPPING_PATH are required for the csv source")
		}

	case collector.NDJSON:
		cfg.NDJSONPath = env.String("NDJSON_PATH", collector.DefaultDevicePath)

	default:
		return nil, fmt.Errorf("invalid SOURCE_TYPE %q, expected one of %v",
			cfg.Type, []collector.Type{collector.Simulated, collector.CSV, collector.NDJSON})
	}

	return cfg, nil
}
