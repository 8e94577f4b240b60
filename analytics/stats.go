package analytics

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// TradingDaysPerYear annualizes the daily Sharpe-like ratio.
const TradingDaysPerYear = 252

// StreakKind names the direction of the streak active after the last trade.
type StreakKind string

const (
	StreakNone StreakKind = "none"
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

type Streak struct {
	Type  StreakKind `json:"type"`
	Count int        `json:"count"`
}

// Stats is the aggregate snapshot over a trade collection.
type Stats struct {
	N               int     `json:"n"`
	TotalR          float64 `json:"totalR"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	BreakEvens      int     `json:"bes"`
	WinRate         float64 `json:"winrate"`
	AvgR            float64 `json:"avgR"`
	BestR           float64 `json:"bestR"`
	WorstR          float64 `json:"worstR"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	BestDay         float64 `json:"bestDay"`
	WorstDay        float64 `json:"worstDay"`
	AvgPerDay       float64 `json:"avgPerDay"`
	ProfitFactor    Factor  `json:"profitFactor"`
	Expectancy      float64 `json:"expR"`
	AvgWin          float64 `json:"avgWin"`
	AvgLoss         float64 `json:"avgLoss"`
	WinLossRatio    float64 `json:"winLossRatio"`
	BestWinStreak   int     `json:"bestWinStreak"`
	WorstLossStreak int     `json:"worstLossStreak"`
	ActiveDays      int     `json:"activeDays"`
	SharpeRatio     float64 `json:"sharpeRatio"`
	CurrentStreak   Streak  `json:"currentStreak"`
}

// streakTracker is the NoStreak / WinStreak(n) / LossStreak(n) machine.
// A break-even clears both counters.
type streakTracker struct {
	win       int
	loss      int
	bestWin   int
	worstLoss int
}

func (s *streakTracker) next(o Outcome) {
	switch o {
	case Win:
		s.win++
		s.loss = 0
		s.bestWin = max(s.bestWin, s.win)
	case Loss:
		s.loss++
		s.win = 0
		s.worstLoss = max(s.worstLoss, s.loss)
	default:
		s.win, s.loss = 0, 0
	}
}

func (s *streakTracker) current() Streak {
	switch {
	case s.win > 0:
		return Streak{Type: StreakWin, Count: s.win}
	case s.loss > 0:
		return Streak{Type: StreakLoss, Count: s.loss}
	}
	return Streak{Type: StreakNone}
}

// ComputeStats folds trades in the order given. Order matters for
// drawdown and streaks only; callers normally pass (date, createdAt) order.
func ComputeStats(trades []journal.Trade) Stats {
	var (
		t                   tally
		streaks             streakTracker
		equity, peak, maxDD float64
		dayOrder            []string
	)
	bestR, worstR := math.Inf(-1), math.Inf(1)
	dayTotal := map[string]float64{}

	for _, tr := range trades {
		r := R(tr)
		streaks.next(t.add(r))

		equity += r
		peak = max(peak, equity)
		maxDD = max(maxDD, peak-equity)

		bestR = max(bestR, r)
		worstR = min(worstR, r)

		if _, ok := tradeDay(tr); ok {
			if _, seen := dayTotal[tr.Date]; !seen {
				dayOrder = append(dayOrder, tr.Date)
			}
			dayTotal[tr.Date] += r
		}
	}

	s := Stats{
		N:               t.n,
		TotalR:          t.total,
		Wins:            t.wins,
		Losses:          t.losses,
		BreakEvens:      t.bes,
		WinRate:         t.winRate(),
		AvgR:            t.avgR(),
		MaxDrawdown:     maxDD,
		ProfitFactor:    t.profitFactor(),
		Expectancy:      t.expectancy(),
		AvgWin:          t.avgWin(),
		AvgLoss:         t.avgLoss(),
		BestWinStreak:   streaks.bestWin,
		WorstLossStreak: streaks.worstLoss,
		ActiveDays:      len(dayOrder),
		CurrentStreak:   streaks.current(),
	}
	if t.n > 0 {
		s.BestR, s.WorstR = bestR, worstR
	}
	if s.AvgLoss < 0 {
		s.WinLossRatio = s.AvgWin / math.Abs(s.AvgLoss)
	}

	if len(dayOrder) > 0 {
		daily := make([]float64, len(dayOrder))
		for i, d := range dayOrder {
			daily[i] = dayTotal[d]
		}
		s.BestDay, s.WorstDay = daily[0], daily[0]
		for _, v := range daily[1:] {
			s.BestDay = max(s.BestDay, v)
			s.WorstDay = min(s.WorstDay, v)
		}
		s.AvgPerDay = t.total / float64(len(daily))
		s.SharpeRatio = sharpe(daily)
	}
	return s
}

// sharpe is mean over population standard deviation of the daily R sums,
// scaled by sqrt(252). Fewer than two days or zero dispersion yield 0.
func sharpe(daily []float64) float64 {
	if len(daily) < 2 {
		return 0
	}
	var sum float64
	for _, v := range daily {
		sum += v
	}
	mean := sum / float64(len(daily))

	var sq float64
	for _, v := range daily {
		sq += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(sq / float64(len(daily)))
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(TradingDaysPerYear)
}
