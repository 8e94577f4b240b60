package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an Org-mode or Excel statistics report",
	Long: `Build a full report (statistics, strategy, session, weekday and month
tables, R distribution and mistakes) for a date window.

The format follows the output extension (.xlsx for Excel, Org otherwise)
unless --format is given. Without --output the Org report goes to stdout.

Examples:
  tj report --filter month --title "March review" -o march.org
  tj report --filter year -o 2024.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportTitle  string
	reportOutput string
	reportFormat string
	reportNotes  []string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	addFilterFlags(reportCmd.Flags())
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "report heading")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default stdout)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "org or xlsx")
	reportCmd.Flags().StringArrayVar(&reportNotes, "note", nil, "observation to add (repeatable)")
}

func runReport(cmd *cobra.Command, args []string) error {
	format := reportFormat
	if format == "" {
		format = "org"
		if strings.EqualFold(filepath.Ext(reportOutput), ".xlsx") {
			format = "xlsx"
		}
	}
	if format != "org" && format != "xlsx" {
		return fmt.Errorf("unknown report format %q (want org or xlsx)", format)
	}
	if format == "xlsx" && reportOutput == "" {
		return fmt.Errorf("xlsx reports need --output")
	}

	rng, err := filterRange()
	if err != nil {
		return err
	}
	trades, err := loadTrades(cmd)
	if err != nil {
		return err
	}
	rep := report.Build(reportTitle, trades, rng, time.Now())
	rep.Notes = reportNotes

	return writeOutput(cmd, reportOutput, func(w io.Writer) error {
		if format == "xlsx" {
			return report.WriteXLSX(w, rep)
		}
		return report.WriteOrg(w, rep)
	})
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
