package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const readingsTable = "readings"

var readingColumns = []string{"id", "sensor_id", "temperature", "status", "read_at", "stored_at"}

// Storer writes batches into the readings table with COPY inside one
// transaction, so a batch is stored entirely or not at all.
type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	return &Storer{db: pool.conn}, nil
}

func (s *Storer) SaveBulk(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([][]interface{}, len(readings))
	for i, r := range readings {
		r = r.WithDefaults(now)
		rows[i] = []interface{}{
			r.ID,
			r.SensorID,
			r.Temperature,
			r.Status,
			r.ReadAt,
			now,
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{readingsTable},
		readingColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert readings: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("bulk insert copied %d of %d readings", n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit readings: %w", err)
	}
	return nil
}

// Count returns how many readings a sensor has stored.
func (s *Storer) Count(ctx context.Context, sensorID int) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM readings WHERE sensor_id = $1`, sensorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return n, nil
}

func (s *Storer) Get(ctx context.Context, id uuid.UUID) (domain.Reading, error) {
	var r domain.Reading
	err := s.db.QueryRow(ctx,
		`SELECT id, sensor_id, temperature, status, read_at FROM readings WHERE id = $1`, id,
	).Scan(&r.ID, &r.SensorID, &r.Temperature, &r.Status, &r.ReadAt)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("failed to get reading %s: %w", id, err)
	}
	return r, nil
}
