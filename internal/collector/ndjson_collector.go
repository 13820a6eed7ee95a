package collector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
)

const DefaultDevicePath = "/dev/ttyACM0"

const (
	maxLineSize = 64 * 1024
	readSize    = 4096
)

// ErrLineTooLong reports a line longer than 64 KiB. The line is skipped.
var ErrLineTooLong = errors.New("line too long")

// NDJSONCollector reads one JSON reading per line, e.g. from a serial device
// that prints {"sensor_id":1,"temp":24.5,"status":"occupied"}.
// A malformed or overlong line is returned as a *LineError and skipped; end of
// input drains the source. Read errors are retried on a device and end the
// stream on anything else.
type NDJSONCollector struct {
	reader *bufio.Reader
	closer io.Closer
	device bool
	buf    []byte
	line   int
	now    func() time.Time
}

func NewNDJSONCollector(r io.Reader) *NDJSONCollector {
	c := &NDJSONCollector{
		reader: bufio.NewReaderSize(r, readSize),
		now:    time.Now,
	}
	if closer, ok := r.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

// OpenNDJSONCollector opens a device or file path for reading.
func OpenNDJSONCollector(path string) (*NDJSONCollector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	c := NewNDJSONCollector(f)
	c.device = info.Mode()&os.ModeDevice != 0
	slog.Info("Starting serial listener", "path", path, "device", c.device)
	return c, nil
}

func (c *NDJSONCollector) Acquire(ctx context.Context) (domain.Reading, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Reading{}, err
		}

		line, err := c.readLine()
		switch {
		case err == nil:
		case errors.Is(err, ErrLineTooLong):
			c.line++
			return domain.Reading{}, &LineError{Line: c.line, Err: err}
		case errors.Is(err, io.EOF):
			return domain.Reading{}, pipeline.ErrSourceDrained
		case c.device:
			return domain.Reading{}, fmt.Errorf("read line %d: %w", c.line+1, err)
		default:
			slog.Error("Read failed, closing stream", "line", c.line+1, "error", err)
			return domain.Reading{}, fmt.Errorf("%w: read line %d: %v", pipeline.ErrSourceDrained, c.line+1, err)
		}
		c.line++

		raw := bytes.TrimSpace(line)
		if len(raw) == 0 {
			continue
		}

		var reading domain.Reading
		if err := json.Unmarshal(raw, &reading); err != nil {
			return domain.Reading{}, &LineError{Line: c.line, Err: err}
		}
		return reading.WithDefaults(c.now()), nil
	}
}

// readLine returns the next line. An overlong line is consumed up to its
// newline and reported as ErrLineTooLong. The returned slice is valid until
// the next call.
func (c *NDJSONCollector) readLine() ([]byte, error) {
	c.buf = c.buf[:0]
	overlong := false

	for {
		frag, err := c.reader.ReadSlice('\n')
		if !overlong {
			if len(c.buf)+len(frag) > maxLineSize {
				overlong = true
				c.buf = c.buf[:0]
			} else {
				c.buf = append(c.buf, frag...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF) && (len(c.buf) > 0 || overlong):
			// An unterminated last line still counts; EOF comes back on the next call.
			if overlong {
				return nil, ErrLineTooLong
			}
			return c.buf, nil
		default:
			return nil, err
		}
	}
}

func (c *NDJSONCollector) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
