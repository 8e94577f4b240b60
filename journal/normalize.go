package journal

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// record is one stored trade decoded field by field, so a single odd value
// never sinks the whole collection.
type record map[string]json.RawMessage

// DecodeTrades parses a stored trade collection and normalizes every record
// to the current shape. Older records used rr, risk, direction and setup for
// what are now realisedR, riskPercent, position and setupGrade. A document
// that is valid JSON but not an array decodes to no trades.
func DecodeTrades(data []byte, now time.Time) ([]Trade, error) {
	trades, _, err := decodeTrades(data, now)
	return trades, err
}

// decodeTrades also reports whether any record was assigned an id or a
// creation time, in which case the stored document should be rewritten.
func decodeTrades(data []byte, now time.Time) ([]Trade, bool, error) {
	if len(data) == 0 {
		return []Trade{}, false, nil
	}
	if !json.Valid(data) {
		return nil, false, fmt.Errorf("decode trades: %w", ErrCorrupt)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []Trade{}, false, nil
	}

	out := make([]Trade, 0, len(items))
	filled := false
	for i, item := range items {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			// non-object entries are dropped
			continue
		}
		// Records without a timestamp keep their stored order.
		t, f := rec.normalize(now.Add(time.Duration(i) * time.Millisecond))
		out = append(out, t)
		filled = filled || f
	}
	return out, filled, nil
}

// Normalize fills the defaults a record built elsewhere may be missing.
func Normalize(t Trade, now time.Time) Trade {
	out := t.Clone()
	if out.CreatedAt == 0 {
		out.CreatedAt = now.UnixMilli()
	}
	if out.ID == "" {
		out.ID = id.NewAt(time.UnixMilli(out.CreatedAt))
	}
	if out.Position == "" {
		out.Position = "Long"
	}
	if math.IsNaN(out.RealisedR) || math.IsInf(out.RealisedR, 0) {
		out.RealisedR = 0
	}
	return out
}

func (r record) normalize(now time.Time) (Trade, bool) {
	realised, ok := r.number("realisedR")
	if !ok {
		realised, _ = r.number("rr")
	}
	maxR, ok := r.number("maxR")
	if !ok {
		maxR = realised
	}

	t := Trade{
		ID:          r.str("id"),
		Date:        r.str("date"),
		Symbol:      r.str("symbol"),
		Account:     r.str("account"),
		Model:       r.str("model"),
		Session:     r.str("session"),
		EntryTF:     r.str("entryTF"),
		Position:    r.str("position", "direction"),
		RealisedR:   realised,
		MaxR:        maxR,
		SetupGrade:  r.str("setupGrade", "setup"),
		KeyLevels:   r.strs("keyLevels"),
		Mistakes:    r.strs("mistakes"),
		Screenshots: r.str("screenshots"),
		Notes:       r.str("notes"),
	}
	if v, ok := r.number("riskPercent"); ok {
		t.RiskPercent = &v
	} else if v, ok := r.number("risk"); ok {
		t.RiskPercent = &v
	}
	if v, ok := r.number("createdAt"); ok && v > 0 {
		t.CreatedAt = int64(v)
	}
	filled := t.ID == "" || t.CreatedAt == 0
	return Normalize(t, now), filled
}

// number returns the value at key only when it is a JSON number.
func (r record) number(key string) (float64, bool) {
	raw, ok := r[key]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// str returns the first non-empty string among keys.
func (r record) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func (r record) strs(key string) []string {
	raw, ok := r[key]
	if !ok {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}
