package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReading_WithDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("fills empty fields", func(t *testing.T) {
		r := Reading{SensorID: 1, Temperature: 24.5}.WithDefaults(now)

		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.Equal(t, ReadingDefaultStatus, r.Status)
		assert.Equal(t, now, r.ReadAt)
	})

	t.Run("keeps set fields", func(t *testing.T) {
		id := uuid.New()
		at := now.Add(-time.Minute)
		r := Reading{ID: id, Status: "occupied", ReadAt: at}.WithDefaults(now)

		assert.Equal(t, id, r.ID)
		assert.Equal(t, "occupied", r.Status)
		assert.Equal(t, at, r.ReadAt)
	})
}
