package analytics

import "github.com/rustyeddy/tradejournal/journal"

// HeatMapCell is one weekday of the heat map. Day follows time.Weekday,
// 0 being Sunday.
type HeatMapCell struct {
	Day    int     `json:"day"`
	Label  string  `json:"label"`
	TotalR float64 `json:"totalR"`
	Trades int     `json:"trades"`
	AvgR   float64 `json:"avgR"`
}

// DayOfWeekHeat returns seven cells, Sunday first. Trades carry no time of
// day, so the grid collapses to weekdays.
func DayOfWeekHeat(trades []journal.Trade) []HeatMapCell {
	out := make([]HeatMapCell, 0, len(weekdays))
	for i, p := range ByDayOfWeek(trades) {
		out = append(out, HeatMapCell{
			Day:    i,
			Label:  p.Label,
			TotalR: p.TotalR,
			Trades: p.Trades,
			AvgR:   p.AvgR,
		})
	}
	return out
}
