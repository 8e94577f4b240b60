package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print journal statistics",
	Long: `Compute R-multiple statistics over the trades in a date window.

Examples:
  tj stats
  tj stats --filter month
  tj stats --by session
  tj stats --mistakes --filter custom --from 2024-01-01 --to 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsBy       string
	statsMistakes bool
	statsJSON     bool
)

func init() {
	rootCmd.AddCommand(statsCmd)
	addFilterFlags(statsCmd.Flags())
	statsCmd.Flags().StringVar(&statsBy, "by", "", "group by dow, month, session, strategy, symbol, account or grade")
	statsCmd.Flags().BoolVar(&statsMistakes, "mistakes", false, "rank mistake tags by cost")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of a table")
}

func loadTrades(cmd *cobra.Command) ([]journal.Trade, error) {
	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	trades, err := store.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return trades, nil
}

// loadSelected loads the trades inside the date window flags.
func loadSelected(cmd *cobra.Command) ([]journal.Trade, error) {
	rng, err := filterRange()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	from, to, bounded := rng.Bounds(now)
	if !bounded {
		trades, err := loadTrades(cmd)
		if err != nil {
			return nil, err
		}
		return analytics.Filter(trades, rng, now), nil
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	trades, err := journal.LoadBetween(cmd.Context(), store, from, to)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return analytics.Filter(trades, rng, now), nil
}

func runStats(cmd *cobra.Command, args []string) error {
	var dim analytics.Dimension
	if statsBy != "" {
		d, err := analytics.ParseDimension(statsBy)
		if err != nil {
			return err
		}
		dim = d
	}

	trades, err := loadSelected(cmd)
	if err != nil {
		return err
	}

	var v any
	switch {
	case statsMistakes:
		v = analytics.RankMistakes(analytics.MistakeBreakdown(trades))
	case dim == analytics.DimStrategy:
		v = analytics.ByStrategy(trades)
	case dim != "":
		v = analytics.Performance(trades, dim)
	default:
		v = analytics.ComputeStats(trades)
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	switch rows := v.(type) {
	case []analytics.RankedMistake:
		return report.WriteMistakesTable(out, rows)
	case []analytics.StrategyPerformance:
		return report.WritePerformanceTable(out, string(dim), strategyRows(rows))
	case []analytics.PeriodPerformance:
		return report.WritePerformanceTable(out, string(dim), rows)
	case analytics.Stats:
		return report.WriteStatsTable(out, rows)
	}
	return nil
}

func strategyRows(in []analytics.StrategyPerformance) []analytics.PeriodPerformance {
	out := make([]analytics.PeriodPerformance, len(in))
	for i, s := range in {
		out[i] = analytics.PeriodPerformance{
			Label:   s.Name,
			TotalR:  s.TotalR,
			Trades:  s.Trades,
			WinRate: s.WinRate,
			AvgR:    s.AvgR,
		}
	}
	return out
}
