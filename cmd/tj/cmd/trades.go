package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Add, list, show and remove trades",
	Long: `Manage the trades in the configured store.

Subcommands:
  add    - Log a new trade
  list   - List trades, optionally within a date window
  show   - Show one trade as an Org-mode entry
  rm     - Remove a trade by id
  clear  - Remove every trade

Examples:
  tj trades add --symbol NQ --r 2 --model "Continuation Model" --session NY
  tj trades list --filter week
  tj trades show 01HV6T6VABCDE...`,
}

var tradesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradesAdd,
}

var tradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades sorted by date",
	Args:  cobra.NoArgs,
	RunE:  runTradesList,
}

var tradesShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesShow,
}

var tradesRmCmd = &cobra.Command{
	Use:   "rm <trade-id>",
	Short: "Remove a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesRm,
}

var tradesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every trade",
	Args:  cobra.NoArgs,
	RunE:  runTradesClear,
}

var (
	addTrade  journal.NewTrade
	addR      float64
	addMaxR   float64
	addRisk   float64
	listOrg   bool
	clearSure bool
)

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesCmd.AddCommand(tradesAddCmd, tradesListCmd, tradesShowCmd, tradesRmCmd, tradesClearCmd)

	f := tradesAddCmd.Flags()
	f.StringVar(&addTrade.Date, "date", "", "trade date YYYY-MM-DD (default today)")
	f.StringVar(&addTrade.Symbol, "symbol", "", "instrument symbol (required)")
	f.Float64Var(&addR, "r", 0, "realised R multiple (required)")
	f.Float64Var(&addMaxR, "max-r", 0, "best R reached (default realised R)")
	f.Float64Var(&addRisk, "risk", 0, "risk percent of the account")
	f.StringVar(&addTrade.Account, "account", "", "account name")
	f.StringVar(&addTrade.Model, "model", "", "strategy model")
	f.StringVar(&addTrade.Session, "session", "", "trading session")
	f.StringVar(&addTrade.EntryTF, "tf", "", "entry timeframe")
	f.StringVar(&addTrade.Position, "position", "Long", "Long or Short")
	f.StringVar(&addTrade.SetupGrade, "grade", "", "setup grade")
	f.StringSliceVar(&addTrade.KeyLevels, "level", nil, "key level (repeatable)")
	f.StringSliceVar(&addTrade.Mistakes, "mistake", nil, "mistake tag (repeatable)")
	f.StringVar(&addTrade.Notes, "notes", "", "free text notes")
	tradesAddCmd.MarkFlagRequired("symbol")
	tradesAddCmd.MarkFlagRequired("r")

	addFilterFlags(tradesListCmd.Flags())
	tradesListCmd.Flags().BoolVar(&listOrg, "org", false, "print Org-mode entries instead of a table")

	tradesClearCmd.Flags().BoolVar(&clearSure, "yes", false, "confirm removing every trade")
}

func runTradesAdd(cmd *cobra.Command, args []string) error {
	nt := addTrade
	if nt.Date == "" {
		nt.Date = time.Now().Format(journal.DateLayout)
	}
	r := addR
	nt.RealisedR = &r
	if cmd.Flags().Changed("max-r") {
		m := addMaxR
		nt.MaxR = &m
	}
	if cmd.Flags().Changed("risk") {
		risk := addRisk
		nt.RiskPercent = &risk
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.Create(cmd.Context(), nt)
	if err != nil {
		return fmt.Errorf("add trade: %w", err)
	}
	log.Debug().Str("id", t.ID).Msg("trade added")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added trade %s: %s %s on %s\n",
		t.ID, t.Symbol, journal.FormatR(t.RealisedR), t.Date)
	return nil
}

func runTradesList(cmd *cobra.Command, args []string) error {
	trades, err := loadSelected(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(trades) == 0 {
		fmt.Fprintln(out, "No trades.")
		return nil
	}
	if listOrg {
		fmt.Fprint(out, journal.FormatTradesOrg(trades))
		return nil
	}
	return report.WriteTradesTable(out, trades)
}

func runTradesShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
	return nil
}

func runTradesRm(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("remove trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed trade %s\n", args[0])
	return nil
}

func runTradesClear(cmd *cobra.Command, args []string) error {
	if !clearSure {
		return errors.New("refusing to remove every trade without --yes")
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteAll(cmd.Context()); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Removed every trade")
	return nil
}
