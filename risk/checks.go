package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations"`
	Snapshot   Snapshot    `json:"snapshot"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate checks trades, in journal order, against p as of now.
func Evaluate(p Policy, trades []journal.Trade, now time.Time) Decision {
	d := Decision{Allowed: true, Violations: []Violation{}}

	today := analytics.Filter(trades, analytics.Range{Mode: analytics.FilterToday}, now)
	week := analytics.Filter(trades, analytics.Range{Mode: analytics.FilterWeek}, now)
	weekStart, _, _ := analytics.Range{Mode: analytics.FilterWeek}.Bounds(now)

	snap := Snapshot{
		Today:     now.Format(journal.DateLayout),
		WeekStart: weekStart,
		DayR:      analytics.ComputeStats(today).TotalR,
		WeekR:     analytics.ComputeStats(week).TotalR,
		DayTrades: len(today),
	}
	if cur := analytics.ComputeStats(trades).CurrentStreak; cur.Type == analytics.StreakLoss {
		snap.LossStreak = cur.Count
	}
	d.Snapshot = snap

	// Tilt
	if p.TiltThreshold > 0 && snap.LossStreak >= p.TiltThreshold {
		d.add("TILT", fmt.Sprintf("%d losses in a row >= tilt threshold %d", snap.LossStreak, p.TiltThreshold))
	}

	// Circuit breakers (loss limits)
	if p.MaxDailyLossR > 0 && snap.DayR <= -p.MaxDailyLossR {
		d.add("DAILY_LOSS_LIMIT", fmt.Sprintf("day %s <= limit -%.2fR", journal.FormatR(snap.DayR), p.MaxDailyLossR))
	}
	if p.MaxWeeklyLossR > 0 && snap.WeekR <= -p.MaxWeeklyLossR {
		d.add("WEEKLY_LOSS_LIMIT", fmt.Sprintf("week %s <= limit -%.2fR", journal.FormatR(snap.WeekR), p.MaxWeeklyLossR))
	}

	// Exposure
	if p.MaxTradesPerDay > 0 && snap.DayTrades >= p.MaxTradesPerDay {
		d.add("TOO_MANY_TRADES", fmt.Sprintf("trades today %d >= max %d", snap.DayTrades, p.MaxTradesPerDay))
	}
	if p.MaxRiskPct > 0 {
		for _, t := range today {
			if t.RiskPercent != nil && *t.RiskPercent > p.MaxRiskPct {
				d.add("RISK_TOO_HIGH", fmt.Sprintf("trade %s %s risked %.2f%% > max %.2f%%",
					t.ID, t.Symbol, *t.RiskPercent, p.MaxRiskPct))
			}
		}
	}
	return d
}
