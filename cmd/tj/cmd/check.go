package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the journal against your discipline limits",
	Long: `Check today's and this week's trades against the discipline section of
the config (daily and weekly loss limits in R, max risk percent, max trades
per day) and the tilt threshold from the journal settings.

With --strict a breached limit makes the command fail, so it can gate a
pre-session script.

Examples:
  tj check
  tj check --strict && echo "clear to trade"`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var (
	checkStrict bool
	checkJSON   bool
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when a limit is breached")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the decision as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	settings, err := store.Settings(cmd.Context())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	trades, err := store.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	d := risk.Evaluate(risk.NewPolicy(cfg.Discipline, settings), trades, time.Now())

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return err
		}
	} else {
		s := d.Snapshot
		fmt.Fprintf(out, "Today %s: %d trades, %s (week from %s: %s, loss streak %d)\n",
			s.Today, s.DayTrades, journal.FormatR(s.DayR), s.WeekStart, journal.FormatR(s.WeekR), s.LossStreak)
		if d.Allowed {
			fmt.Fprintln(out, "✓ Within limits")
		}
		for _, v := range d.Violations {
			fmt.Fprintf(out, "✗ %s: %s\n", v.Code, v.Msg)
		}
	}

	if checkStrict && !d.Allowed {
		return errors.New("discipline limits breached")
	}
	return nil
}
