package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import trades from CSV or JSON",
	Long: `Import trades from a CSV file (tj export format) or a JSON array.

JSON records in the older layout (rr, risk, direction, setup) are
normalized on the way in. Imported trades are appended unless --replace
is given; an imported trade whose id is already stored replaces it.

Examples:
  tj import trades.csv
  tj import backup.json --replace`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV, JSON, XLSX or Org",
	Long: `Export the trades inside a date window.

The format follows the output extension unless --format is given.

Examples:
  tj export -o trades.csv
  tj export --filter year -o 2024.xlsx
  tj export --format org`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	importFormat  string
	importReplace bool
	exportFormat  string
	exportOutput  string
)

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
	importCmd.Flags().StringVar(&importFormat, "format", "", "csv or json (default from extension)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace every stored trade")

	addFilterFlags(exportCmd.Flags())
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "csv, json, xlsx or org (default from extension, else csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func formatOf(flag, path, fallback string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		return ext
	}
	return fallback
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	now := time.Now()
	var incoming []journal.Trade
	switch format := formatOf(importFormat, path, "csv"); format {
	case "csv":
		incoming, err = journal.ReadCSV(bytes.NewReader(data), now)
	case "json":
		incoming, err = journal.DecodeTrades(data, now)
	default:
		return fmt.Errorf("unknown import format %q (want csv or json)", format)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	all := incoming
	if !importReplace {
		existing, err := store.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load trades: %w", err)
		}
		all = mergeTrades(existing, incoming)
	}
	if err := store.Save(cmd.Context(), all); err != nil {
		return fmt.Errorf("save trades: %w", err)
	}

	log.Info().Int("imported", len(incoming)).Int("total", len(all)).Msg("import complete")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades (%d total)\n", len(incoming), len(all))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format := formatOf(exportFormat, exportOutput, "csv")
	rng, err := filterRange()
	if err != nil {
		return err
	}
	if format == "xlsx" && exportOutput == "" {
		return fmt.Errorf("xlsx exports need --output")
	}

	switch format {
	case "csv", "json", "org", "xlsx":
	default:
		return fmt.Errorf("unknown export format %q (want csv, json, xlsx or org)", format)
	}

	trades, err := loadTrades(cmd)
	if err != nil {
		return err
	}
	now := time.Now()
	selected := analytics.Filter(trades, rng, now)

	var write func(io.Writer) error
	switch format {
	case "csv":
		write = func(w io.Writer) error { return journal.WriteCSV(w, selected) }
	case "json":
		write = func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(selected)
		}
	case "org":
		write = func(w io.Writer) error {
			_, err := io.WriteString(w, journal.FormatTradesOrg(selected)+"\n")
			return err
		}
	case "xlsx":
		write = func(w io.Writer) error { return report.WriteXLSX(w, report.Build("", trades, rng, now)) }
	}
	return writeOutput(cmd, exportOutput, write)
}

// mergeTrades appends incoming to existing, replacing stored trades that
// share an id.
func mergeTrades(existing, incoming []journal.Trade) []journal.Trade {
	out := make([]journal.Trade, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	idx := make(map[string]int, len(out))
	for i, t := range out {
		idx[t.ID] = i
	}
	for _, t := range incoming {
		if i, ok := idx[t.ID]; ok {
			out[i] = t
			continue
		}
		idx[t.ID] = len(out)
		out = append(out, t)
	}
	return out
}
