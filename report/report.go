// Package report renders journal analytics for people: Org-mode documents,
// Excel workbooks and aligned terminal tables.
package report

import (
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

// Report is everything the stats document shows for one filtered window.
type Report struct {
	Title     string
	Generated time.Time
	Range     analytics.Range
	From, To  string

	Trades       []journal.Trade
	Stats        analytics.Stats
	Strategies   []analytics.StrategyPerformance
	Sessions     []analytics.PeriodPerformance
	Weekdays     []analytics.PeriodPerformance
	Months       []analytics.PeriodPerformance
	Distribution []analytics.DistributionBucket
	Mistakes     []analytics.RankedMistake
	Summary      analytics.MistakeSummary
	Scenario     analytics.Scenario

	Notes []string
}

// Build filters trades to r and computes every section.
func Build(title string, trades []journal.Trade, r analytics.Range, now time.Time) Report {
	sel := analytics.Filter(trades, r, now)
	from, to, _ := r.Bounds(now)
	if r.Mode == "" {
		r.Mode = analytics.FilterAll
	}

	mistakes := analytics.MistakeBreakdown(sel)
	return Report{
		Title:        title,
		Generated:    now,
		Range:        r,
		From:         from,
		To:           to,
		Trades:       sel,
		Stats:        analytics.ComputeStats(sel),
		Strategies:   analytics.ByStrategy(sel),
		Sessions:     analytics.BySession(sel),
		Weekdays:     analytics.ByDayOfWeek(sel),
		Months:       analytics.ByMonth(sel),
		Distribution: analytics.Distribution(sel),
		Mistakes:     analytics.RankMistakes(mistakes),
		Summary:      analytics.SummarizeMistakes(mistakes),
		Scenario:     analytics.MistakeScenario(sel),
	}
}
