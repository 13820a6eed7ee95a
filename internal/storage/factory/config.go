package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/es"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/storage/pg"
	"github.com/DjordjeVuckovic/sensor-buffer/pkg/utils"
)

const defaultFilePath = "readings.ndjson"

type StorageConfig struct {
	storage.Type
	Pg       *pg.PoolConfig
	Es       *es.ClientConfig
	FilePath string
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Info("STORAGE_TYPE is not set, using default", "default", storage.Log)
		storageType = storage.Log
	}
	if !slices.Contains(storage.Types, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.ES:
		esCfg := &es.ClientConfig{
			Addresses: utils.RemoveEmptyStrings(strings.Split(os.Getenv("ES_ADDRESSES"), ",")),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if err := esCfg.Validate(); err != nil {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses, "indexName", esCfg.IndexName)
			return nil, err
		}
		cfg.Es = esCfg

	case storage.PG:
		pgCfg := &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		if v := os.Getenv("PG_MAX_CONNS"); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid PG_MAX_CONNS %q", v)
			}
			pgCfg.MaxConns = int32(n)
		}
		cfg.Pg = pgCfg

	case storage.File:
		cfg.FilePath = os.Getenv("FILE_PATH")
		if cfg.FilePath == "" {
			cfg.FilePath = defaultFilePath
		}
	}

	return cfg, nil
}
