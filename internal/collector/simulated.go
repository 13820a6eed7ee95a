package collector

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/domain"
	"github.com/DjordjeVuckovic/sensor-buffer/pkg/utils"
	"golang.org/x/time/rate"
)

const (
	defaultSensorID    = 1
	defaultTemperature = 24.5
	defaultStatus      = "occupied"
)

type SimulatedConfig struct {
	// Rate is readings per second. Zero or less means unlimited.
	Rate        float64
	SensorID    int
	Temperature float64
	// Jitter is the maximum +/- deviation added to Temperature.
	Jitter float64
	Status string
}

// SimulatedCollector emits synthetic readings at a fixed rate, standing in for
// a hardware feed.
type SimulatedCollector struct {
	cfg     SimulatedConfig
	limiter *rate.Limiter
	now     func() time.Time
}

func NewSimulatedCollector(cfg SimulatedConfig) *SimulatedCollector {
	if cfg.SensorID == 0 {
		cfg.SensorID = defaultSensorID
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Status == "" {
		cfg.Status = defaultStatus
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	return &SimulatedCollector{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

func (c *SimulatedCollector) Acquire(ctx context.Context) (domain.Reading, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Reading{}, err
	}

	temp := c.cfg.Temperature
	if c.cfg.Jitter > 0 {
		temp = utils.RoundDecimal(temp+(rand.Float64()*2-1)*c.cfg.Jitter, 2)
	}

	return domain.Reading{
		SensorID:    c.cfg.SensorID,
		Temperature: temp,
		Status:      c.cfg.Status,
	}.WithDefaults(c.now()), nil
}
