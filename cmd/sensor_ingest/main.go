package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/api/server"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/factory"
)

func main() {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Sensor ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *SensorIngestConfig) error {
	slog.Info("Creating pipeline",
		"source", cfg.Source.Type,
		"storageType", cfg.StorageConfig.Type,
		"capacity", cfg.Pipeline.Capacity,
		"batchSize", cfg.Pipeline.BatchSize,
		"overflow", cfg.Pipeline.Overflow)

	backend, err := factory.NewStorer(ctx, cfg.StorageConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("Failed to close storage backend", "error", err)
		}
	}()

	source, closer, err := newSource(cfg.Source)
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := pipeline.New[domain.Reading](source, storage.AsSink(backend.Storer), pipeline.WithConfig(cfg.Pipeline))
	if err != nil {
		return err
	}

	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	srvDone := make(chan struct{})
	if cfg.Server.Enabled {
		s := server.New(cfg.Server).
			SetupMiddlewares().
			SetupErrorHandler().
			WithHealthChecker("pipeline", p).
			WithHealthChecker("storage", backend.Health).
			SetupHealthChecks("/health").
			SetupStats("/stats", p)

		go func() {
			defer close(srvDone)
			if err := s.Start(srvCtx); err != nil {
				slog.Error("Status server failed", "error", err)
			}
		}()
	} else {
		close(srvDone)
	}

	if err := p.Start(ctx); err != nil {
		return err
	}

	<-p.Done()
	slog.Info("Shutdown completed, cleaning up resources...")

	stopServer()
	<-srvDone
	return nil
}
