package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

const selectTrades = `
	SELECT trade_id, date, symbol, account, model, session, entry_tf, position, risk_percent,
	       realised_r, max_r, setup_grade, key_levels, mistakes, screenshots, notes, created_at
	FROM trades`

type rowScanner interface {
	Scan(dest ...any) error
}

// Get returns a single trade by id.
func (j *SQLiteStore) Get(ctx context.Context, tradeID string) (Trade, error) {
	return scanTrade(j.db.QueryRowContext(ctx, selectTrades+` WHERE trade_id = ?`, tradeID))
}

// Load returns every trade ordered by date, then creation time.
func (j *SQLiteStore) Load(ctx context.Context) ([]Trade, error) {
	return j.query(ctx, selectTrades+` ORDER BY date ASC, created_at ASC`)
}

// ListBetween returns trades dated within [from, to], both inclusive.
func (j *SQLiteStore) ListBetween(ctx context.Context, from, to string) ([]Trade, error) {
	if from > to {
		from, to = to, from
	}
	return j.query(ctx, selectTrades+`
		WHERE date >= ? AND date <= ? AND date != ''
		ORDER BY date ASC, created_at ASC`, from, to)
}

func (j *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Trade, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTrade(row rowScanner) (Trade, error) {
	var (
		t         Trade
		risk      sql.NullFloat64
		keyLevels string
		mistakes  string
	)
	err := row.Scan(
		&t.ID,
		&t.Date,
		&t.Symbol,
		&t.Account,
		&t.Model,
		&t.Session,
		&t.EntryTF,
		&t.Position,
		&risk,
		&t.RealisedR,
		&t.MaxR,
		&t.SetupGrade,
		&keyLevels,
		&mistakes,
		&t.Screenshots,
		&t.Notes,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, ErrNotFound
		}
		return Trade{}, err
	}
	if risk.Valid {
		v := risk.Float64
		t.RiskPercent = &v
	}
	t.KeyLevels = decodeTags(keyLevels)
	t.Mistakes = decodeTags(mistakes)
	return t, nil
}

func decodeTags(s string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(s), &out)
	if out == nil {
		out = []string{}
	}
	return out
}
