package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// FilterMode selects the date window Filter keeps.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterToday  FilterMode = "today"
	FilterWeek   FilterMode = "week"
	FilterMonth  FilterMode = "month"
	FilterYear   FilterMode = "year"
	FilterCustom FilterMode = "custom"
)

// ParseFilterMode accepts the mode names case-insensitively. The empty
// string means all.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterWeek, FilterMonth, FilterYear, FilterCustom:
		return m, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, today, week, month, year or custom)", s)
}

// Range is a filter request. From and To are only read in custom mode and
// Year only in year mode, where zero means the current year.
type Range struct {
	Mode FilterMode
	From string
	To   string
	Year int
}

// Bounds resolves the inclusive YYYY-MM-DD window for r relative to now.
// ok is false when the range keeps everything.
func (r Range) Bounds(now time.Time) (from, to string, ok bool) {
	today := now.Format(journal.DateLayout)
	switch r.Mode {
	case FilterToday:
		return today, today, true
	case FilterWeek:
		// Weeks start on Monday.
		back := (int(now.Weekday()) + 6) % 7
		return now.AddDate(0, 0, -back).Format(journal.DateLayout), today, true
	case FilterMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.Format(journal.DateLayout), today, true
	case FilterYear:
		y := r.Year
		if y == 0 {
			y = now.Year()
		}
		return fmt.Sprintf("%04d-01-01", y), fmt.Sprintf("%04d-12-31", y), true
	case FilterCustom:
		if r.From == "" || r.To == "" {
			return "", "", false
		}
		from, to = r.From, r.To
		if from > to {
			from, to = to, from
		}
		return from, to, true
	}
	return "", "", false
}

// Filter returns a new slice with the trades whose date lies inside the
// resolved range. Trades without a date survive only when the range keeps
// everything. The input is never modified or aliased.
func Filter(trades []journal.Trade, r Range, now time.Time) []journal.Trade {
	from, to, ok := r.Bounds(now)
	out := make([]journal.Trade, 0, len(trades))
	for _, t := range trades {
		if ok {
			if _, valid := tradeDay(t); !valid || t.Date < from || t.Date > to {
				continue
			}
		}
		out = append(out, t.Clone())
	}
	return out
}
