package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

const insertTrade = `
	INSERT INTO trades
	(trade_id, date, symbol, account, model, session, entry_tf, position, risk_percent,
	 realised_r, max_r, setup_grade, key_levels, mistakes, screenshots, notes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (j *SQLiteStore) insert(ctx context.Context, ex execer, t Trade) error {
	keyLevels, mistakes, err := encodeTags(t)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, insertTrade,
		t.ID, t.Date, t.Symbol, t.Account, t.Model, t.Session, t.EntryTF, t.Position,
		nullFloat(t.RiskPercent), t.RealisedR, t.MaxR, t.SetupGrade, keyLevels, mistakes,
		t.Screenshots, t.Notes, t.CreatedAt,
	)
	return err
}

func (j *SQLiteStore) Save(ctx context.Context, trades []Trade) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return err
	}
	now := j.now()
	for i, t := range trades {
		if err := j.insert(ctx, tx, Normalize(t, now.Add(time.Duration(i)*time.Millisecond))); err != nil {
			return fmt.Errorf("insert %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLiteStore) Create(ctx context.Context, nt NewTrade) (Trade, error) {
	if err := Validate(nt); err != nil {
		return Trade{}, err
	}
	t := nt.Build(id.New(), j.now())
	if err := j.insert(ctx, j.db, t); err != nil {
		return Trade{}, err
	}
	return t, nil
}

func (j *SQLiteStore) Update(ctx context.Context, tradeID string, p TradePatch) (Trade, error) {
	if err := Validate(p); err != nil {
		return Trade{}, err
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return Trade{}, err
	}
	defer tx.Rollback()

	cur, err := scanTrade(tx.QueryRowContext(ctx, selectTrades+` WHERE trade_id = ?`, tradeID))
	if err != nil {
		return Trade{}, err
	}
	t := p.Apply(cur)
	keyLevels, mistakes, err := encodeTags(t)
	if err != nil {
		return Trade{}, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE trades SET
		date = ?, symbol = ?, account = ?, model = ?, session = ?, entry_tf = ?, position = ?,
		risk_percent = ?, realised_r = ?, max_r = ?, setup_grade = ?, key_levels = ?, mistakes = ?,
		screenshots = ?, notes = ?, created_at = ?
		WHERE trade_id = ?`,
		t.Date, t.Symbol, t.Account, t.Model, t.Session, t.EntryTF, t.Position,
		nullFloat(t.RiskPercent), t.RealisedR, t.MaxR, t.SetupGrade, keyLevels, mistakes,
		t.Screenshots, t.Notes, t.CreatedAt, tradeID,
	)
	if err != nil {
		return Trade{}, err
	}
	if err := tx.Commit(); err != nil {
		return Trade{}, err
	}
	return t, nil
}

func (j *SQLiteStore) Delete(ctx context.Context, tradeID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (j *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `DELETE FROM trades`)
	return err
}

func (j *SQLiteStore) Settings(ctx context.Context) (Settings, error) {
	var data string
	err := j.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", ErrCorrupt)
	}
	return s.WithDefaults(), nil
}

func (j *SQLiteStore) SaveSettings(ctx context.Context, s Settings) (Settings, error) {
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	s = s.WithDefaults()
	data, err := json.Marshal(s)
	if err != nil {
		return Settings{}, err
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO settings (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (j *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return err
	}
	return j.DeleteAll(ctx)
}

func (j *SQLiteStore) Close() error {
	return j.db.Close()
}

func encodeTags(t Trade) (string, string, error) {
	kl, err := json.Marshal(copyStrings(t.KeyLevels))
	if err != nil {
		return "", "", err
	}
	ms, err := json.Marshal(copyStrings(t.Mistakes))
	if err != nil {
		return "", "", err
	}
	return string(kl), string(ms), nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
