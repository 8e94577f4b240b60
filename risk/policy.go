// Package risk checks a journal against the trader's own discipline rules:
// tilt after a losing streak, daily and weekly loss limits, per trade risk
// and overtrading.
package risk

import (
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

// Policy holds the limits. A zero limit is disabled.
type Policy struct {
	// Consecutive losses that count as tilt.
	TiltThreshold int

	// Loss limits in R, as positive numbers.
	MaxDailyLossR  float64
	MaxWeeklyLossR float64

	// Largest riskPercent a single trade may carry.
	MaxRiskPct float64

	MaxTradesPerDay int
}

// NewPolicy combines the configured limits with the tilt threshold from the
// journal settings.
func NewPolicy(d config.DisciplineConfig, s journal.Settings) Policy {
	return Policy{
		TiltThreshold:   s.WithDefaults().TiltThreshold,
		MaxDailyLossR:   d.MaxDailyLossR,
		MaxWeeklyLossR:  d.MaxWeeklyLossR,
		MaxRiskPct:      d.MaxRiskPct,
		MaxTradesPerDay: d.MaxTradesPerDay,
	}
}

// Snapshot is the state of the journal the rules were checked against.
type Snapshot struct {
	Today      string  `json:"today"`
	WeekStart  string  `json:"weekStart"`
	DayR       float64 `json:"dayR"`
	WeekR      float64 `json:"weekR"`
	DayTrades  int     `json:"dayTrades"`
	LossStreak int     `json:"lossStreak"`
}
