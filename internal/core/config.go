package core

import (
	"time"

	"github.com/mikey/contract-sentinel/internal/ml"
	"github.com/mikey/contract-sentinel/internal/risk"
	"github.com/mikey/contract-sentinel/internal/statusset"
)

// Config holds the engine's tunable constants
type Config struct {
	MinTrainingRecords  int
	ConfidenceThreshold float64
	Risk                risk.Thresholds
	CVFolds             int

	OverdueDays     int
	EscalationDays  int
	CriticalAgeDays int
	CriticalRate    float64

	ClosedStatuses []string

	Forest    ml.ForestConfig
	Isolation ml.IsolationConfig

	// Clock supplies "now" for age features; nil means time.Now
	Clock func() time.Time
}

// DefaultConfig returns the stock thresholds: 20 records, 0.30 confidence,
// 15/30/50 risk bounds, 30/60/90 day age bounds and a 20% critical rate
func DefaultConfig() Config {
	return Config{
		MinTrainingRecords:  20,
		ConfidenceThreshold: 0.30,
		Risk:                risk.DefaultThresholds(),
		CVFolds:             5,
		OverdueDays:         30,
		EscalationDays:      60,
		CriticalAgeDays:     90,
		CriticalRate:        0.20,
		ClosedStatuses:      append([]string(nil), statusset.DefaultClosed...),
		Forest:              ml.DefaultForestConfig(),
		Isolation:           ml.DefaultIsolationConfig(),
		Clock:               time.Now,
	}
}

func (c Config) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}
