package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// PeriodPerformance is one row of a grouped performance table.
type PeriodPerformance struct {
	Label   string  `json:"label"`
	TotalR  float64 `json:"totalR"`
	Trades  int     `json:"trades"`
	WinRate float64 `json:"winRate"`
	AvgR    float64 `json:"avgR"`
}

// StrategyPerformance extends a row with the ComputeStats ratios,
// restricted to the trades of one model.
type StrategyPerformance struct {
	Name         string  `json:"name"`
	Trades       int     `json:"trades"`
	TotalR       float64 `json:"totalR"`
	WinRate      float64 `json:"winRate"`
	AvgR         float64 `json:"avgR"`
	ProfitFactor Factor  `json:"profitFactor"`
	Expectancy   float64 `json:"expectancy"`
}

// UnknownLabel replaces an empty grouping label.
const UnknownLabel = "Unknown"

var weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func row(label string, t *tally) PeriodPerformance {
	return PeriodPerformance{
		Label:   label,
		TotalR:  t.total,
		Trades:  t.n,
		WinRate: t.winRate(),
		AvgR:    t.avgR(),
	}
}

// ByDayOfWeek always returns seven rows, Sunday first. Trades without a
// usable date are skipped.
func ByDayOfWeek(trades []journal.Trade) []PeriodPerformance {
	var buckets [7]tally
	for _, t := range trades {
		d, ok := tradeDay(t)
		if !ok {
			continue
		}
		buckets[d.Weekday()].add(R(t))
	}
	out := make([]PeriodPerformance, 0, len(weekdays))
	for i, label := range weekdays {
		out = append(out, row(label, &buckets[i]))
	}
	return out
}

// ByMonth groups by calendar month, oldest first, labelled like "Jan 2024".
func ByMonth(trades []journal.Trade) []PeriodPerformance {
	buckets := map[string]*tally{}
	labels := map[string]string{}
	for _, t := range trades {
		d, ok := tradeDay(t)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		b, found := buckets[key]
		if !found {
			b = &tally{}
			buckets[key] = b
			labels[key] = d.Format("Jan 2006")
		}
		b.add(R(t))
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]PeriodPerformance, 0, len(keys))
	for _, k := range keys {
		out = append(out, row(labels[k], buckets[k]))
	}
	return out
}

// grouping keeps buckets in the order their label was first seen.
type grouping struct {
	order   []string
	buckets map[string]*tally
}

func groupBy(trades []journal.Trade, key func(journal.Trade) string) grouping {
	g := grouping{buckets: map[string]*tally{}}
	for _, t := range trades {
		label := key(t)
		if label == "" {
			label = UnknownLabel
		}
		b, ok := g.buckets[label]
		if !ok {
			b = &tally{}
			g.buckets[label] = b
			g.order = append(g.order, label)
		}
		b.add(R(t))
	}
	return g
}

func (g grouping) rows() []PeriodPerformance {
	out := make([]PeriodPerformance, 0, len(g.order))
	for _, label := range g.order {
		out = append(out, row(label, g.buckets[label]))
	}
	return out
}

func BySession(trades []journal.Trade) []PeriodPerformance {
	return groupBy(trades, func(t journal.Trade) string { return t.Session }).rows()
}

func BySymbol(trades []journal.Trade) []PeriodPerformance {
	return groupBy(trades, func(t journal.Trade) string { return t.Symbol }).rows()
}

func ByAccount(trades []journal.Trade) []PeriodPerformance {
	return groupBy(trades, func(t journal.Trade) string { return t.Account }).rows()
}

func BySetupGrade(trades []journal.Trade) []PeriodPerformance {
	return groupBy(trades, func(t journal.Trade) string { return t.SetupGrade }).rows()
}

// ByStrategy groups by model and adds profit factor and expectancy.
func ByStrategy(trades []journal.Trade) []StrategyPerformance {
	g := groupBy(trades, func(t journal.Trade) string { return t.Model })
	out := make([]StrategyPerformance, 0, len(g.order))
	for _, name := range g.order {
		b := g.buckets[name]
		out = append(out, StrategyPerformance{
			Name:         name,
			Trades:       b.n,
			TotalR:       b.total,
			WinRate:      b.winRate(),
			AvgR:         b.avgR(),
			ProfitFactor: b.profitFactor(),
			Expectancy:   b.expectancy(),
		})
	}
	return out
}

// Dimension names a grouping for the period tables.
type Dimension string

const (
	DimDayOfWeek Dimension = "dow"
	DimMonth     Dimension = "month"
	DimSession   Dimension = "session"
	DimStrategy  Dimension = "strategy"
	DimSymbol    Dimension = "symbol"
	DimAccount   Dimension = "account"
	DimGrade     Dimension = "grade"
)

// Dimensions lists every accepted grouping in display order.
var Dimensions = []Dimension{DimDayOfWeek, DimMonth, DimSession, DimStrategy, DimSymbol, DimAccount, DimGrade}

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown grouping %q", s)
}

// Performance returns the rows for a dimension. Strategy rows are reduced
// to the common shape; use ByStrategy for the extra ratios.
func Performance(trades []journal.Trade, d Dimension) []PeriodPerformance {
	switch d {
	case DimDayOfWeek:
		return ByDayOfWeek(trades)
	case DimMonth:
		return ByMonth(trades)
	case DimSession:
		return BySession(trades)
	case DimStrategy:
		return groupBy(trades, func(t journal.Trade) string { return t.Model }).rows()
	case DimSymbol:
		return BySymbol(trades)
	case DimAccount:
		return ByAccount(trades)
	case DimGrade:
		return BySetupGrade(trades)
	}
	return []PeriodPerformance{}
}
