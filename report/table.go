package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteTradesTable prints one aligned line per trade.
func WriteTradesTable(w io.Writer, trades []journal.Trade) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tSYMBOL\tMODEL\tSESSION\tPOS\tR\tMISTAKES")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, orDash(journal.FormatDate(t.Date)), t.Symbol, orDash(t.Model), orDash(t.Session),
			t.Position, journal.FormatR(t.RealisedR), strings.Join(t.Mistakes, ", "))
	}
	return tw.Flush()
}

// WriteStatsTable prints the headline statistics as label/value lines.
func WriteStatsTable(w io.Writer, s analytics.Stats) error {
	tw := newTable(w)
	lines := []struct {
		label, value string
	}{
		{"Trades", fmt.Sprintf("%d (%dW / %dL / %dBE)", s.N, s.Wins, s.Losses, s.BreakEvens)},
		{"Total R", journal.FormatR(s.TotalR)},
		{"Win rate", fmt.Sprintf("%.1f%%", s.WinRate)},
		{"Avg R", journal.FormatR(s.AvgR)},
		{"Expectancy", journal.FormatR(s.Expectancy)},
		{"Avg win / loss", journal.FormatR(s.AvgWin) + " / " + journal.FormatR(s.AvgLoss)},
		{"Win/loss ratio", fmt.Sprintf("%.2f", s.WinLossRatio)},
		{"Profit factor", s.ProfitFactor.String()},
		{"Best / worst trade", journal.FormatR(s.BestR) + " / " + journal.FormatR(s.WorstR)},
		{"Max drawdown", fmt.Sprintf("%.2fR", s.MaxDrawdown)},
		{"Best / worst day", journal.FormatR(s.BestDay) + " / " + journal.FormatR(s.WorstDay)},
		{"Active days", fmt.Sprintf("%d (avg %s)", s.ActiveDays, journal.FormatR(s.AvgPerDay))},
		{"Sharpe", fmt.Sprintf("%.2f", s.SharpeRatio)},
		{"Streaks", fmt.Sprintf("current %d %s, best win %d, worst loss %d",
			s.CurrentStreak.Count, s.CurrentStreak.Type, s.BestWinStreak, s.WorstLossStreak)},
	}
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\n", l.label, l.value)
	}
	return tw.Flush()
}

// WritePerformanceTable prints bucketed rows under the given heading.
func WritePerformanceTable(w io.Writer, heading string, rows []analytics.PeriodPerformance) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\tTRADES\tTOTAL R\tWIN %%\tAVG R\n", strings.ToUpper(heading))
	for _, p := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f\t%s\n",
			p.Label, p.Trades, journal.FormatR(p.TotalR), p.WinRate, journal.FormatR(p.AvgR))
	}
	return tw.Flush()
}

// WriteMistakesTable prints ranked mistakes, costliest first.
func WriteMistakesTable(w io.Writer, ranked []analytics.RankedMistake) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tMISTAKE\tTRADES\tW\tL\tTOTAL R\tEXP")
	for _, m := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			m.Priority, m.Mistake, m.Trades, m.Wins, m.Losses,
			journal.FormatR(m.TotalR), journal.FormatR(m.Expectancy))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
