// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	symbol TEXT NOT NULL,
	account TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	session TEXT NOT NULL DEFAULT '',
	entry_tf TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT 'Long',
	risk_percent REAL,
	realised_r REAL NOT NULL,
	max_r REAL NOT NULL,
	setup_grade TEXT NOT NULL DEFAULT '',
	key_levels TEXT NOT NULL DEFAULT '[]',
	mistakes TEXT NOT NULL DEFAULT '[]',
	screenshots TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date, created_at);

CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL
);
`
