//go:build blackbox

package blackbox

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// storedTrades reads the raw trades array from a file journal.
func storedTrades(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	var trades []map[string]any
	if err := json.Unmarshal(doc["tj_multi_trades_v1"], &trades); err != nil {
		t.Fatal(err)
	}
	return trades
}
