package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
)

// JsonFileStorer appends readings to a file as newline-delimited JSON.
// Each batch is written and synced before SaveBulk returns.
type JsonFileStorer struct {
	mu   sync.Mutex
	path string
	file *os.File
}

func NewJsonFileStorer(path string) (*JsonFileStorer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &JsonFileStorer{path: path, file: f}, nil
}

func (s *JsonFileStorer) SaveBulk(ctx context.Context, readings []domain.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("json file storer %s is closed", s.path)
	}

	w := bufio.NewWriter(s.file)
	enc := json.NewEncoder(w)
	for i, r := range readings {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode reading %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", s.path, err)
	}
	return nil
}

func (s *JsonFileStorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
