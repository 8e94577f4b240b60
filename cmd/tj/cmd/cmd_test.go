package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package level variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace([]string{})
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// journalAt runs tj against a file store at path.
func journalAt(path string) func(t *testing.T, args ...string) (string, error) {
	return func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		return execute(t, append([]string{"--store", "file", "--path", path}, args...)...)
	}
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 4, out)
	return strings.TrimSuffix(fields[3], ":")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tj version "+version)
}

func TestTradesLifecycle(t *testing.T) {
	tj := journalAt(filepath.Join(t.TempDir(), "journal.json"))

	out, err := tj(t, "trades", "add", "--date", "2024-03-11", "--symbol", "NQ", "--r", "2",
		"--session", "NY", "--level", "1H", "--level", "4H")
	require.NoError(t, err)
	assert.Contains(t, out, "NQ +2.00R on 2024-03-11")
	first := addedID(t, out)

	out, err = tj(t, "trades", "add", "--date", "2024-03-12", "--symbol", "ES", "--r", "-1",
		"--position", "Short", "--mistake", "FOMO", "--risk", "0.5")
	require.NoError(t, err)
	second := addedID(t, out)

	out, err = tj(t, "trades", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], first)
	assert.Contains(t, lines[2], "FOMO")

	out, err = tj(t, "trades", "list", "--org")
	require.NoError(t, err)
	assert.Contains(t, out, ":KEY_LEVELS: 1H, 4H")

	out, err = tj(t, "trades", "show", second)
	require.NoError(t, err)
	assert.Contains(t, out, ":TRADE_ID: "+second)
	assert.Contains(t, out, ":POSITION: Short")
	assert.Contains(t, out, ":RISK_PERCENT: 0.50")

	_, err = tj(t, "trades", "rm", second)
	require.NoError(t, err)
	_, err = tj(t, "trades", "show", second)
	assert.ErrorIs(t, err, journal.ErrNotFound)

	_, err = tj(t, "trades", "clear")
	assert.ErrorContains(t, err, "--yes")

	_, err = tj(t, "trades", "clear", "--yes")
	require.NoError(t, err)
	out, err = tj(t, "trades", "list")
	require.NoError(t, err)
	assert.Equal(t, "No trades.\n", out)
}

func TestTradesAddValidation(t *testing.T) {
	tj := journalAt(filepath.Join(t.TempDir(), "journal.json"))

	_, err := tj(t, "trades", "add", "--r", "1")
	assert.ErrorContains(t, err, "symbol")

	_, err = tj(t, "trades", "add", "--symbol", "NQ", "--r", "1", "--date", "2024-13-01")
	var verr *journal.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = tj(t, "trades", "list", "--filter", "fortnight")
	assert.ErrorContains(t, err, "unknown filter")
}

func seedJournal(t *testing.T, tj func(*testing.T, ...string) (string, error)) {
	t.Helper()
	for _, args := range [][]string{
		{"--date", "2024-03-11", "--symbol", "NQ", "--r", "2", "--session", "NY", "--model", "Breakout"},
		{"--date", "2024-03-12", "--symbol", "ES", "--r", "-1", "--session", "London", "--mistake", "FOMO"},
		{"--date", "2024-03-13", "--symbol", "NQ", "--r", "1.5", "--session", "NY", "--model", "Breakout"},
	} {
		_, err := tj(t, append([]string{"trades", "add"}, args...)...)
		require.NoError(t, err)
	}
}

func TestStats(t *testing.T) {
	tj := journalAt(filepath.Join(t.TempDir(), "journal.json"))
	seedJournal(t, tj)

	out, err := tj(t, "stats", "--json")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 3.0, stats["n"])
	assert.Equal(t, 2.5, stats["totalR"])
	assert.Equal(t, 3.5, stats["profitFactor"])

	out, err = tj(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "3 (2W / 1L / 0BE)")

	out, err = tj(t, "stats", "--filter", "custom", "--from", "2024-03-13", "--to", "2024-03-12", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2.0, stats["n"])

	out, err = tj(t, "stats", "--by", "session")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "SESSION"))
	assert.Contains(t, out, "London")

	out, err = tj(t, "stats", "--by", "strategy")
	require.NoError(t, err)
	assert.Contains(t, out, "Breakout")
	assert.Contains(t, out, "Unknown")

	out, err = tj(t, "stats", "--mistakes")
	require.NoError(t, err)
	assert.Contains(t, out, "FOMO")

	_, err = tj(t, "stats", "--by", "weather")
	assert.ErrorContains(t, err, "unknown grouping")
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := journalAt(filepath.Join(dir, "a.json"))
	dst := journalAt(filepath.Join(dir, "b.json"))
	seedJournal(t, src)

	csvPath := filepath.Join(dir, "trades.csv")
	out, err := src(t, "export", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote "+csvPath)

	out, err = dst(t, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 trades (3 total)")

	want, err := src(t, "export", "--format", "json")
	require.NoError(t, err)
	got, err := dst(t, "export", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, want, got)

	// Re-importing the same ids replaces rather than duplicates.
	out, err = dst(t, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "(3 total)")

	out, err = src(t, "export", "--format", "org", "--filter", "custom", "--from", "2024-03-12", "--to", "2024-03-12")
	require.NoError(t, err)
	assert.Contains(t, out, ":SYMBOL: ES")
	assert.NotContains(t, out, ":SYMBOL: NQ")

	xlsxPath := filepath.Join(dir, "trades.xlsx")
	_, err = src(t, "export", "-o", xlsxPath)
	require.NoError(t, err)
	info, err := os.Stat(xlsxPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = src(t, "export", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestImportLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	tj := journalAt(filepath.Join(dir, "journal.json"))
	seedJournal(t, tj)

	legacy := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(legacy,
		[]byte(`[{"date":"2024-01-02","symbol":"CL","rr":-1,"direction":"Short","setup":"B"}]`), 0o644))

	out, err := tj(t, "import", legacy, "--replace")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 trades (1 total)")

	out, err = tj(t, "trades", "list", "--org")
	require.NoError(t, err)
	assert.Contains(t, out, ":SYMBOL: CL")
	assert.Contains(t, out, ":POSITION: Short")
	assert.Contains(t, out, ":SETUP_GRADE: B")
	assert.Contains(t, out, ":REALISED_R: -1.00R")

	_, err = tj(t, "import", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	tj := journalAt(filepath.Join(dir, "journal.json"))
	seedJournal(t, tj)

	out, err := tj(t, "report", "--title", "March", "--note", "Size down after a loss")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "* JOURNAL: March\n"))
	assert.Contains(t, out, "- Size down after a loss")
	assert.Contains(t, out, "| Breakout | 2 |")

	orgPath := filepath.Join(dir, "r.org")
	_, err = tj(t, "report", "-o", orgPath)
	require.NoError(t, err)
	data, err := os.ReadFile(orgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":TRADES:      3")

	_, err = tj(t, "report", "-o", filepath.Join(dir, "r.xlsx"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "r.xlsx"))
	assert.NoError(t, err)

	_, err = tj(t, "report", "--format", "xlsx")
	assert.ErrorContains(t, err, "--output")
	_, err = tj(t, "report", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown report format")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tj.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Storage: file")

	out, err = execute(t, "--config", path, "--store", "sqlite", "--path", filepath.Join(dir, "j.db"), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "type: sqlite")
	assert.Contains(t, out, "j.db")

	_, err = execute(t, "config", "validate")
	assert.Error(t, err)

	_, err = execute(t, "--store", "mem", "--path", "x", "version")
	assert.ErrorContains(t, err, "--path")
	_, err = execute(t, "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "logging.level")
}

func TestServeStopsWithContext(t *testing.T) {
	_, err := execute(t, "--store", "mem", "version")
	require.NoError(t, err)

	serveAddr = "127.0.0.1:0"
	t.Cleanup(func() { serveAddr = "" })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx))
}

func TestMergeTrades(t *testing.T) {
	existing := []journal.Trade{{ID: "a", Symbol: "NQ"}, {ID: "b", Symbol: "ES"}}
	incoming := []journal.Trade{{ID: "b", Symbol: "CL"}, {ID: "c", Symbol: "GC"}}

	got := mergeTrades(existing, incoming)
	require.Len(t, got, 3)
	assert.Equal(t, "NQ", got[0].Symbol)
	assert.Equal(t, "CL", got[1].Symbol)
	assert.Equal(t, "GC", got[2].Symbol)
	assert.Equal(t, "ES", existing[1].Symbol)
}

func TestCheck(t *testing.T) {
	tj := journalAt(filepath.Join(t.TempDir(), "journal.json"))

	out, err := tj(t, "check", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Within limits")

	today := time.Now().Format(journal.DateLayout)
	for _, r := range []string{"-1", "-1.5"} {
		_, err := tj(t, "trades", "add", "--date", today, "--symbol", "NQ", "--r", r)
		require.NoError(t, err)
	}

	out, err = tj(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ TILT")

	out, err = tj(t, "check", "--json")
	require.NoError(t, err)
	var d struct {
		Allowed bool `json:"allowed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.False(t, d.Allowed)

	_, err = tj(t, "check", "--strict")
	assert.ErrorContains(t, err, "breached")
}
