package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// DayStats is the rollup of one calendar date.
type DayStats struct {
	Date   string  `json:"date"`
	TotalR float64 `json:"totalR"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
}

func (d *DayStats) add(r float64) {
	d.TotalR += r
	d.Trades++
	switch Classify(r) {
	case Win:
		d.Wins++
	case Loss:
		d.Losses++
	}
}

// DayStatsByDate groups trades by their exact date. Trades without a valid
// date are left out entirely.
func DayStatsByDate(trades []journal.Trade) map[string]DayStats {
	days := map[string]*DayStats{}
	for _, t := range trades {
		if _, ok := tradeDay(t); !ok {
			continue
		}
		d, found := days[t.Date]
		if !found {
			d = &DayStats{Date: t.Date}
			days[t.Date] = d
		}
		d.add(R(t))
	}
	out := make(map[string]DayStats, len(days))
	for k, v := range days {
		out[k] = *v
	}
	return out
}

// DailySeries returns the day rollups sorted by date.
func DailySeries(trades []journal.Trade) []DayStats {
	days := DayStatsByDate(trades)
	out := make([]DayStats, 0, len(days))
	for _, d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DayResult points at one day of a month summary.
type DayResult struct {
	Date   string  `json:"date"`
	TotalR float64 `json:"totalR"`
}

// WeekSummary totals one Monday-start calendar row of a month.
type WeekSummary struct {
	Start  string  `json:"start"`
	TotalR float64 `json:"totalR"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
}

// MonthSummary is the header line and week rows of a calendar month.
type MonthSummary struct {
	Year       int           `json:"year"`
	Month      time.Month    `json:"month"`
	TotalR     float64       `json:"totalR"`
	Trades     int           `json:"trades"`
	ActiveDays int           `json:"activeDays"`
	BestDay    *DayResult    `json:"bestDay"`
	WorstDay   *DayResult    `json:"worstDay"`
	Weeks      []WeekSummary `json:"weeks"`
}

// SummarizeMonth rolls up the days of one calendar month. Best and worst
// day stay nil when nothing was traded; ties keep the earlier date.
func SummarizeMonth(trades []journal.Trade, year int, month time.Month) MonthSummary {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prefix := first.Format("2006-01-")

	s := MonthSummary{Year: year, Month: month, Weeks: []WeekSummary{}}
	weekIdx := map[string]int{}

	for _, d := range DailySeries(trades) {
		if !strings.HasPrefix(d.Date, prefix) {
			continue
		}
		s.TotalR += d.TotalR
		s.Trades += d.Trades
		s.ActiveDays++
		if s.BestDay == nil || d.TotalR > s.BestDay.TotalR {
			s.BestDay = &DayResult{Date: d.Date, TotalR: d.TotalR}
		}
		if s.WorstDay == nil || d.TotalR < s.WorstDay.TotalR {
			s.WorstDay = &DayResult{Date: d.Date, TotalR: d.TotalR}
		}

		start := weekStart(d.Date, first)
		i, ok := weekIdx[start]
		if !ok {
			i = len(s.Weeks)
			weekIdx[start] = i
			s.Weeks = append(s.Weeks, WeekSummary{Start: start})
		}
		w := &s.Weeks[i]
		w.TotalR += d.TotalR
		w.Trades += d.Trades
		w.Wins += d.Wins
		w.Losses += d.Losses
	}
	return s
}

// weekStart is the Monday on or before date, clamped to the first of the
// month so the first row of a month starts inside it.
func weekStart(date string, first time.Time) string {
	d, err := time.Parse(journal.DateLayout, date)
	if err != nil {
		return date
	}
	back := (int(d.Weekday()) + 6) % 7
	m := d.AddDate(0, 0, -back)
	if m.Before(first) {
		m = first
	}
	return m.Format(journal.DateLayout)
}
