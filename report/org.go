package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

var orgFuncs = template.FuncMap{
	"r":   journal.FormatR,
	"pct": func(x float64) string { return fmt.Sprintf("%.1f%%", x) },
	"f2":  func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("stats").Funcs(orgFuncs).Parse(StatsOrgTemplate))

// WriteOrg renders rep as an Org-mode document.
func WriteOrg(w io.Writer, rep Report) error {
	if err := orgTemplate.Execute(w, rep); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

const StatsOrgTemplate = `* JOURNAL: {{if .Title}}{{.Title}}{{else}}Trading journal{{end}}
:PROPERTIES:
:FILTER:      {{.Range.Mode}}
{{- if .From}}
:FROM:        {{.From}}
:TO:          {{.To}}
{{- end}}
:TRADES:      {{.Stats.N}}
:WINS:        {{.Stats.Wins}}
:LOSSES:      {{.Stats.Losses}}
:BREAKEVEN:   {{.Stats.BreakEvens}}
:TOTAL_R:     {{f2 .Stats.TotalR}}
:WIN_RATE:    {{f2 .Stats.WinRate}}
:PROFIT_FAC:  {{.Stats.ProfitFactor}}
:MAX_DD_R:    {{f2 .Stats.MaxDrawdown}}
:CREATED:     [{{(orTime .Generated).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Total R:          *{{r .Stats.TotalR}}*
- Win Rate:         *{{pct .Stats.WinRate}}*
- Expectancy:       *{{r .Stats.Expectancy}}*
- Avg Win / Loss:   *{{r .Stats.AvgWin}} / {{r .Stats.AvgLoss}}*
- Profit Factor:    *{{.Stats.ProfitFactor}}*
- Max Drawdown:     *{{f2 .Stats.MaxDrawdown}}R*
- Best / Worst Day: *{{r .Stats.BestDay}} / {{r .Stats.WorstDay}}*
- Active Days:      *{{.Stats.ActiveDays}}* (avg {{r .Stats.AvgPerDay}})
- Sharpe:           *{{f2 .Stats.SharpeRatio}}*
- Current Streak:   *{{.Stats.CurrentStreak.Count}} {{.Stats.CurrentStreak.Type}}*
- Best Win Streak:  *{{.Stats.BestWinStreak}}*
- Worst Loss Streak: *{{.Stats.WorstLossStreak}}*

{{- if .Strategies}}

** Strategies
| Model | Trades | Total R | Win % | Avg R | PF | Exp |
|-------+--------+---------+-------+-------+----+-----|
{{- range .Strategies}}
| {{.Name}} | {{.Trades}} | {{r .TotalR}} | {{pct .WinRate}} | {{r .AvgR}} | {{.ProfitFactor}} | {{r .Expectancy}} |
{{- end}}
{{- end}}

{{- if .Sessions}}

** Sessions
| Session | Trades | Total R | Win % | Avg R |
|---------+--------+---------+-------+-------|
{{- range .Sessions}}
| {{.Label}} | {{.Trades}} | {{r .TotalR}} | {{pct .WinRate}} | {{r .AvgR}} |
{{- end}}
{{- end}}

** Day of Week
| Day | Trades | Total R | Win % | Avg R |
|-----+--------+---------+-------+-------|
{{- range .Weekdays}}
| {{.Label}} | {{.Trades}} | {{r .TotalR}} | {{pct .WinRate}} | {{r .AvgR}} |
{{- end}}

{{- if .Months}}

** Months
| Month | Trades | Total R | Win % | Avg R |
|-------+--------+---------+-------+-------|
{{- range .Months}}
| {{.Label}} | {{.Trades}} | {{r .TotalR}} | {{pct .WinRate}} | {{r .AvgR}} |
{{- end}}
{{- end}}

** R Distribution
| Range | Count | % |
|-------+-------+---|
{{- range .Distribution}}
| {{.Range}} | {{.Count}} | {{pct .Percentage}} |
{{- end}}

{{- if .Mistakes}}

** Mistakes
Total cost: {{r .Summary.TotalR}}
{{- with .Summary.Worst}}, worst: {{.Mistake}} ({{r .TotalR}}){{end}}
{{- with .Summary.MostFrequent}}, most frequent: {{.Mistake}} ({{.Trades}}){{end}}

| # | Mistake | Trades | W | L | Total R | Exp |
|---+---------+--------+---+---+---------+-----|
{{- range .Mistakes}}
| {{.Priority}} | {{.Mistake}} | {{.Trades}} | {{.Wins}} | {{.Losses}} | {{r .TotalR}} | {{r .Expectancy}} |
{{- end}}

| Scenario | Trades | Win % | Total R | Exp | Max consec. losses |
|----------+--------+-------+---------+-----+--------------------|
| All | {{.Scenario.All.Trades}} | {{pct .Scenario.All.WinRate}} | {{r .Scenario.All.TotalR}} | {{r .Scenario.All.Expectancy}} | {{.Scenario.All.MaxConsecLoss}} |
| Clean | {{.Scenario.Clean.Trades}} | {{pct .Scenario.Clean.WinRate}} | {{r .Scenario.Clean.TotalR}} | {{r .Scenario.Clean.Expectancy}} | {{.Scenario.Clean.MaxConsecLoss}} |
{{- end}}

{{- if .Notes}}

** Observations
{{- range .Notes}}
- {{.}}
{{- end}}
{{- end}}
`
