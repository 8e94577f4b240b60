// journal/csv.go
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSVHeader is the column order WriteCSV emits and ReadCSV expects.
var CSVHeader = []string{
	"id", "date", "symbol", "account", "model", "session", "entry_tf", "position",
	"risk_percent", "realised_r", "max_r", "setup_grade", "key_levels", "mistakes",
	"screenshots", "notes", "created_at",
}

// tagSep joins list columns inside a single CSV cell.
const tagSep = "|"

// WriteCSV writes trades with a header row.
func WriteCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		risk := ""
		if t.RiskPercent != nil {
			risk = f(*t.RiskPercent)
		}
		err := cw.Write([]string{
			t.ID,
			t.Date,
			t.Symbol,
			t.Account,
			t.Model,
			t.Session,
			t.EntryTF,
			t.Position,
			risk,
			f(t.RealisedR),
			f(t.MaxR),
			t.SetupGrade,
			strings.Join(t.KeyLevels, tagSep),
			strings.Join(t.Mistakes, tagSep),
			t.Screenshots,
			t.Notes,
			strconv.FormatInt(t.CreatedAt, 10),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV. Columns are matched by header
// name, so hand edited files may drop or reorder them; realised_r is the
// only required column.
func ReadCSV(r io.Reader, now time.Time) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []Trade{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	if _, ok := col["realised_r"]; !ok {
		return nil, fmt.Errorf("csv: missing realised_r column")
	}

	out := []Trade{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		realised, err := strconv.ParseFloat(get("realised_r"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: realised_r: %w", line, err)
		}
		t := Trade{
			ID:          get("id"),
			Date:        get("date"),
			Symbol:      get("symbol"),
			Account:     get("account"),
			Model:       get("model"),
			Session:     get("session"),
			EntryTF:     get("entry_tf"),
			Position:    get("position"),
			RealisedR:   realised,
			MaxR:        realised,
			SetupGrade:  get("setup_grade"),
			KeyLevels:   splitTags(get("key_levels")),
			Mistakes:    splitTags(get("mistakes")),
			Screenshots: get("screenshots"),
			Notes:       get("notes"),
		}
		if s := get("max_r"); s != "" {
			if t.MaxR, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("line %d: max_r: %w", line, err)
			}
		}
		if s := get("risk_percent"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: risk_percent: %w", line, err)
			}
			t.RiskPercent = &v
		}
		if s := get("created_at"); s != "" {
			if t.CreatedAt, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, fmt.Errorf("line %d: created_at: %w", line, err)
			}
		}
		out = append(out, Normalize(t, now.Add(time.Duration(len(out))*time.Millisecond)))
	}
	return out, nil
}

func splitTags(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, tagSep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
