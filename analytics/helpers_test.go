package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// thursday is 2024-03-14, the reference "now" for date window tests.
var thursday = time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

func trade(date string, r float64) journal.Trade {
	return journal.Trade{
		ID:        date + "/" + journal.FormatR(r),
		Date:      date,
		Symbol:    "NQ",
		RealisedR: r,
		MaxR:      r,
		KeyLevels: []string{},
		Mistakes:  []string{},
	}
}

// series builds one trade per R value, each on its own consecutive date.
func series(rs ...float64) []journal.Trade {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]journal.Trade, 0, len(rs))
	for i, r := range rs {
		t := trade(start.AddDate(0, 0, i).Format(journal.DateLayout), r)
		t.CreatedAt = int64(i + 1)
		out = append(out, t)
	}
	return out
}

func withMistakes(t journal.Trade, tags ...string) journal.Trade {
	t.Mistakes = tags
	return t
}
