package analytics

import (
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// tally accumulates the per-bucket quantities shared by ComputeStats and
// the grouping functions.
type tally struct {
	n       int
	wins    int
	losses  int
	bes     int
	total   float64
	winSum  float64
	lossSum float64
}

func (t *tally) add(r float64) Outcome {
	t.n++
	t.total += r
	o := Classify(r)
	switch o {
	case Win:
		t.wins++
		t.winSum += r
	case Loss:
		t.losses++
		t.lossSum += r
	default:
		t.bes++
	}
	return o
}

func (t *tally) winRate() float64 { return ratio(float64(t.wins), float64(t.n)) * 100 }
func (t *tally) avgR() float64    { return ratio(t.total, float64(t.n)) }
func (t *tally) avgWin() float64  { return ratio(t.winSum, float64(t.wins)) }
func (t *tally) avgLoss() float64 { return ratio(t.lossSum, float64(t.losses)) }

// profitFactor is gross win over absolute gross loss. No losses with at
// least one win is unbounded; no wins and no losses is 0.
func (t *tally) profitFactor() Factor {
	if t.losses > 0 && t.lossSum != 0 {
		return Factor(t.winSum / math.Abs(t.lossSum))
	}
	if t.wins > 0 {
		return Unbounded()
	}
	return 0
}

// expectancy weights the average win and loss by their frequency over all
// n trades; break-evens only dilute the probabilities.
func (t *tally) expectancy() float64 {
	if t.n == 0 {
		return 0
	}
	pWin := float64(t.wins) / float64(t.n)
	pLoss := float64(t.losses) / float64(t.n)
	return pWin*t.avgWin() + pLoss*t.avgLoss()
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// tradeDay parses the trade date. A missing or malformed date reports false
// and keeps the trade out of every date keyed rollup.
func tradeDay(t journal.Trade) (time.Time, bool) {
	if t.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(journal.DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
