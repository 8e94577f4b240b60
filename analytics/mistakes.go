package analytics

import (
	"sort"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// MistakeStats is the rollup of every trade carrying one mistake tag.
type MistakeStats struct {
	Mistake    string  `json:"mistake"`
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalR     float64 `json:"totalR"`
	Expectancy float64 `json:"expectancy"`
}

// RankedMistake is a MistakeStats with its cost rank, 1 being the most
// expensive.
type RankedMistake struct {
	MistakeStats
	Priority int `json:"priority"`
}

// MistakeBreakdown fans each trade out into one bucket per distinct tag it
// carries, so a trade tagged twice contributes its full R to both buckets.
// Buckets are returned in first-seen order and expectancy is the plain
// mean R of the bucket.
func MistakeBreakdown(trades []journal.Trade) []MistakeStats {
	var order []string
	buckets := map[string]*MistakeStats{}

	for _, t := range trades {
		r := R(t)
		o := Classify(r)
		seen := make(map[string]bool, len(t.Mistakes))
		for _, tag := range t.Mistakes {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true

			b, ok := buckets[tag]
			if !ok {
				b = &MistakeStats{Mistake: tag}
				buckets[tag] = b
				order = append(order, tag)
			}
			b.Trades++
			b.TotalR += r
			switch o {
			case Win:
				b.Wins++
			case Loss:
				b.Losses++
			}
		}
	}

	out := make([]MistakeStats, 0, len(order))
	for _, tag := range order {
		b := buckets[tag]
		b.Expectancy = ratio(b.TotalR, float64(b.Trades))
		out = append(out, *b)
	}
	return out
}

// RankMistakes orders buckets most negative total R first and numbers them.
func RankMistakes(stats []MistakeStats) []RankedMistake {
	sorted := make([]MistakeStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TotalR < sorted[j].TotalR })

	out := make([]RankedMistake, len(sorted))
	for i, m := range sorted {
		out[i] = RankedMistake{MistakeStats: m, Priority: i + 1}
	}
	return out
}

// MistakeSummary is the headline line of the mistakes report.
type MistakeSummary struct {
	TotalR       float64       `json:"totalR"`
	Worst        *MistakeStats `json:"worst"`
	MostFrequent *MistakeStats `json:"mostFrequent"`
}

// SummarizeMistakes sums the bucket totals and picks the costliest and the
// most frequent tag. Ties keep the earlier bucket. Both are nil without
// buckets.
func SummarizeMistakes(stats []MistakeStats) MistakeSummary {
	var s MistakeSummary
	for i := range stats {
		m := stats[i]
		s.TotalR += m.TotalR
		if s.Worst == nil || m.TotalR < s.Worst.TotalR {
			s.Worst = &m
		}
		if s.MostFrequent == nil || m.Trades > s.MostFrequent.Trades {
			s.MostFrequent = &m
		}
	}
	return s
}

// BaselineMistake is the tag for a loss taken while following the plan. It
// does not count as a mistake in the scenario comparison.
const BaselineMistake = "normal model loss"

// ScenarioMetrics summarises one side of the what-if comparison.
type ScenarioMetrics struct {
	Trades        int     `json:"trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"winRate"`
	TotalR        float64 `json:"totalR"`
	Expectancy    float64 `json:"expectancy"`
	MaxConsecLoss int     `json:"maxConsecLoss"`
}

// Scenario compares all trades against the clean subset: trades with no
// mistake tag, or with a normal model loss among its tags.
type Scenario struct {
	All   ScenarioMetrics `json:"all"`
	Clean ScenarioMetrics `json:"clean"`
}

func MistakeScenario(trades []journal.Trade) Scenario {
	clean := make([]journal.Trade, 0, len(trades))
	for _, t := range trades {
		if isClean(t) {
			clean = append(clean, t)
		}
	}
	return Scenario{All: scenarioMetrics(trades), Clean: scenarioMetrics(clean)}
}

func isClean(t journal.Trade) bool {
	if len(t.Mistakes) == 0 {
		return true
	}
	for _, m := range t.Mistakes {
		if strings.EqualFold(strings.TrimSpace(m), BaselineMistake) {
			return true
		}
	}
	return false
}

func scenarioMetrics(trades []journal.Trade) ScenarioMetrics {
	sorted := make([]journal.Trade, len(trades))
	copy(sorted, trades)
	journal.SortByDate(sorted)

	var (
		t       tally
		streaks streakTracker
	)
	for _, tr := range sorted {
		streaks.next(t.add(R(tr)))
	}
	return ScenarioMetrics{
		Trades:        t.n,
		Wins:          t.wins,
		Losses:        t.losses,
		WinRate:       t.winRate(),
		TotalR:        t.total,
		Expectancy:    t.avgR(),
		MaxConsecLoss: streaks.worstLoss,
	}
}
