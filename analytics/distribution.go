package analytics

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// DistributionBucket is one bar of the R histogram. A value lands in the
// bucket when Min < r <= Max.
type DistributionBucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Min        float64 `json:"-"`
	Max        float64 `json:"-"`
}

var distributionRanges = []DistributionBucket{
	{Range: "< -3R", Min: math.Inf(-1), Max: -3},
	{Range: "-3R to -2R", Min: -3, Max: -2},
	{Range: "-2R to -1R", Min: -2, Max: -1},
	{Range: "-1R to 0R", Min: -1, Max: 0},
	{Range: "0R to 1R", Min: 0, Max: 1},
	{Range: "1R to 2R", Min: 1, Max: 2},
	{Range: "2R to 3R", Min: 2, Max: 3},
	{Range: "> 3R", Min: 3, Max: math.Inf(1)},
}

// Distribution counts trades into the eight fixed R ranges, tested in
// ascending order so a boundary value lands in the lower bucket.
func Distribution(trades []journal.Trade) []DistributionBucket {
	out := make([]DistributionBucket, len(distributionRanges))
	copy(out, distributionRanges)

	for _, t := range trades {
		r := R(t)
		for i := range out {
			if r > out[i].Min && r <= out[i].Max {
				out[i].Count++
				break
			}
		}
	}
	if n := len(trades); n > 0 {
		for i := range out {
			out[i].Percentage = float64(out[i].Count) / float64(n) * 100
		}
	}
	return out
}
