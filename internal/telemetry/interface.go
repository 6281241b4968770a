package telemetry

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, sample *Sample) error
	Close() error
}

// Sample is one domain's reported figures for one poll cycle.
type Sample struct {
	Timestamp     time.Time
	Domain        string
	PowerW        float64
	AveragePowerW float64
	EnergyWh      float64
	PeakPowerW    float64
}
