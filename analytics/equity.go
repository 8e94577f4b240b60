package analytics

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/journal"
)

// EquityPoint is one step of the cumulative R curve.
type EquityPoint struct {
	X     int     `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// EquityCurve sorts a copy of trades by (date, createdAt) and emits the
// running R total after each one, indexed from 1.
func EquityCurve(trades []journal.Trade) []EquityPoint {
	sorted := make([]journal.Trade, len(trades))
	copy(sorted, trades)
	journal.SortByDate(sorted)

	out := make([]EquityPoint, 0, len(sorted))
	var cum float64
	for i, t := range sorted {
		r := R(t)
		cum += r
		out = append(out, EquityPoint{
			X:     i + 1,
			Y:     cum,
			Label: fmt.Sprintf("Trade %d: %s", i+1, journal.FormatR(r)),
		})
	}
	return out
}
