package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReadings(n int) []domain.Reading {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	readings := make([]domain.Reading, n)
	for i := range readings {
		readings[i] = domain.Reading{
			ID:          uuid.New(),
			SensorID:    i + 1,
			Temperature: 20 + float64(i),
			Status:      "occupied",
			ReadAt:      at.Add(time.Duration(i) * time.Second),
		}
	}
	return readings
}

func TestJsonFileStorer_AppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.ndjson")
	s, err := NewJsonFileStorer(path)
	require.NoError(t, err)

	readings := testReadings(3)
	require.NoError(t, s.SaveBulk(t.Context(), readings[:2]))
	require.NoError(t, s.SaveBulk(t.Context(), readings[2:]))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []domain.Reading
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r domain.Reading
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		got = append(got, r)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, readings, got)
}

func TestJsonFileStorer_ClosedFails(t *testing.T) {
	s, err := NewJsonFileStorer(filepath.Join(t.TempDir(), "r.ndjson"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.SaveBulk(t.Context(), testReadings(1)))
}

func TestLogStorer_LogsCommit(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogStorer(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.SaveBulk(t.Context(), testReadings(4)))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Committed records", entry["msg"])
	assert.Equal(t, float64(4), entry["count"])
}

func TestAsSink(t *testing.T) {
	var got []domain.Reading
	sink := AsSink(storerFunc(func(readings []domain.Reading) {
		got = append(got, readings...)
	}))

	readings := testReadings(2)
	require.NoError(t, sink.Store(t.Context(), readings))
	assert.Equal(t, readings, got)
}
