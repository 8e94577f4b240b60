package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/tradejournal/journal"
)

const (
	TradesSheet  = "Trades"
	SummarySheet = "Summary"
)

var tradeColumns = []string{
	"Date", "Symbol", "Account", "Model", "Session", "Entry TF", "Position",
	"Risk %", "Realised R", "Max R", "Grade", "Key Levels", "Mistakes", "Notes", "ID",
}

// WriteXLSX writes a workbook with one row per trade on the Trades sheet
// and the headline statistics on the Summary sheet.
func WriteXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TradesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeTradesSheet(f, rep.Trades); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, rep); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTradesSheet(f *excelize.File, trades []journal.Trade) error {
	header := make([]any, len(tradeColumns))
	for i, c := range tradeColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(TradesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write trades header: %w", err)
	}

	for i, t := range trades {
		var risk any = ""
		if t.RiskPercent != nil {
			risk = *t.RiskPercent
		}
		row := []any{
			t.Date, t.Symbol, t.Account, t.Model, t.Session, t.EntryTF, t.Position,
			risk, t.RealisedR, t.MaxR, t.SetupGrade,
			strings.Join(t.KeyLevels, ", "), strings.Join(t.Mistakes, ", "),
			t.Notes, t.ID,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(TradesSheet, cell, &row); err != nil {
			return fmt.Errorf("write trade %s: %w", t.ID, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, rep Report) error {
	s := rep.Stats
	rows := [][]any{
		{"Metric", "Value"},
		{"Filter", string(rep.Range.Mode)},
		{"From", rep.From},
		{"To", rep.To},
		{"Trades", s.N},
		{"Wins", s.Wins},
		{"Losses", s.Losses},
		{"Break-even", s.BreakEvens},
		{"Total R", s.TotalR},
		{"Win rate %", s.WinRate},
		{"Average R", s.AvgR},
		{"Expectancy R", s.Expectancy},
		{"Average win R", s.AvgWin},
		{"Average loss R", s.AvgLoss},
		// Excel has no infinity, so the factor goes in as text.
		{"Profit factor", s.ProfitFactor.String()},
		{"Max drawdown R", s.MaxDrawdown},
		{"Best day R", s.BestDay},
		{"Worst day R", s.WorstDay},
		{"Active days", s.ActiveDays},
		{"Sharpe", s.SharpeRatio},
		{"Best win streak", s.BestWinStreak},
		{"Worst loss streak", s.WorstLossStreak},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
