package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNDJSONCollector_Acquire(t *testing.T) {
	input := `{"sensor_id": 1, "temp": 24.5, "status": "occupied"}

not json
{"sensor_id": 2, "temp": 19}
`
	c := NewNDJSONCollector(strings.NewReader(input))

	first, err := c.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, first.SensorID)
	assert.Equal(t, 24.5, first.Temperature)
	assert.Equal(t, "occupied", first.Status)

	_, err = c.Acquire(t.Context())
	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Line)

	second, err := c.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, second.SensorID)
	assert.Equal(t, "unknown", second.Status)

	_, err = c.Acquire(t.Context())
	assert.ErrorIs(t, err, pipeline.ErrSourceDrained)
}

func overlongInput() string {
	return `{"sensor_id": 1}` + "\n" + strings.Repeat("x", 70*1024) + "\n" + `{"sensor_id": 2}` + "\n"
}

func TestNDJSONCollector_SkipsOverlongLine(t *testing.T) {
	c := NewNDJSONCollector(strings.NewReader(overlongInput()))

	first, err := c.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, first.SensorID)

	_, err = c.Acquire(t.Context())
	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Line)
	assert.ErrorIs(t, err, ErrLineTooLong)

	second, err := c.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, second.SensorID)

	_, err = c.Acquire(t.Context())
	assert.ErrorIs(t, err, pipeline.ErrSourceDrained)
}

func TestNDJSONCollector_UnterminatedLastLine(t *testing.T) {
	c := NewNDJSONCollector(strings.NewReader(`{"sensor_id": 7}`))

	r, err := c.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 7, r.SensorID)

	_, err = c.Acquire(t.Context())
	assert.ErrorIs(t, err, pipeline.ErrSourceDrained)
}

func TestNDJSONCollector_ReadErrorEndsStream(t *testing.T) {
	c := NewNDJSONCollector(iotest.ErrReader(errors.New("io failure")))

	_, err := c.Acquire(t.Context())
	assert.ErrorIs(t, err, pipeline.ErrSourceDrained)
	assert.ErrorContains(t, err, "io failure")
}

func TestNDJSONCollector_PipelineRecoversFromOverlongLine(t *testing.T) {
	var (
		mu     sync.Mutex
		stored []int
	)
	sink := pipeline.SinkFunc[domain.Reading](func(_ context.Context, batch []domain.Reading) error {
		mu.Lock()
		defer mu.Unlock()
		for _, r := range batch {
			stored = append(stored, r.SensorID)
		}
		return nil
	})

	p, err := pipeline.New[domain.Reading](
		NewNDJSONCollector(strings.NewReader(overlongInput())),
		sink,
		pipeline.WithBatchSize(10),
		pipeline.WithRetryBackoff(time.Millisecond, time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, p.Start(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.AwaitStopped(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, stored)
	assert.Equal(t, uint64(1), p.Stats().SourceErrors)
}

func TestOpenNDJSONCollector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tty")
	require.NoError(t, os.WriteFile(path, []byte(`{"sensor_id": 4, "temp": 21.5}`+"\n"), 0o600))

	c, err := OpenNDJSONCollector(path)
	require.NoError(t, err)
	defer c.Close()

	r, err := c.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 4, r.SensorID)
}

func TestOpenNDJSONCollector_MissingDevice(t *testing.T) {
	_, err := OpenNDJSONCollector(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
