// journal/journal.go
package journal

import (
	"context"
	"errors"
	"sort"
)

// Fixed keys the keyed stores (file, redis) address the collections by.
const (
	TradesKey   = "tj_multi_trades_v1"
	SettingsKey = "tj_multi_settings_v1"
)

// ErrNotFound is returned when a trade id is unknown to the store.
var ErrNotFound = errors.New("trade not found")

// ErrCorrupt is returned when a stored document is not valid JSON.
var ErrCorrupt = errors.New("stored document is not valid JSON")

// Trade is a single discretionary trade as logged by the user. RealisedR is
// the only quantity the analytics consume; every other label is a grouping key.
type Trade struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Symbol      string   `json:"symbol"`
	Account     string   `json:"account"`
	Model       string   `json:"model"`
	Session     string   `json:"session"`
	EntryTF     string   `json:"entryTF"`
	Position    string   `json:"position"`
	RiskPercent *float64 `json:"riskPercent"`
	RealisedR   float64  `json:"realisedR"`
	MaxR        float64  `json:"maxR"`
	SetupGrade  string   `json:"setupGrade"`
	KeyLevels   []string `json:"keyLevels"`
	Mistakes    []string `json:"mistakes"`
	Screenshots string   `json:"screenshots"`
	Notes       string   `json:"notes"`
	CreatedAt   int64    `json:"createdAt"`
}

// Store is the persistence port. Whatever owns the trade collection talks to
// a Store; the analytics never do.
type Store interface {
	// Load returns every trade sorted by (date, createdAt).
	Load(ctx context.Context) ([]Trade, error)
	// Save replaces the whole collection.
	Save(ctx context.Context, trades []Trade) error

	Get(ctx context.Context, id string) (Trade, error)
	Create(ctx context.Context, nt NewTrade) (Trade, error)
	Update(ctx context.Context, id string, p TradePatch) (Trade, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error

	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) (Settings, error)

	// Reset drops every trade and the saved settings.
	Reset(ctx context.Context) error

	Close() error
}

// RangeLister is implemented by stores that select a date window in the
// backend, such as SQLiteStore.
type RangeLister interface {
	ListBetween(ctx context.Context, from, to string) ([]Trade, error)
}

// LoadBetween returns the dated trades within [from, to], both inclusive,
// sorted by (date, createdAt). Reversed bounds are swapped.
func LoadBetween(ctx context.Context, s Store, from, to string) ([]Trade, error) {
	if rl, ok := s.(RangeLister); ok {
		return rl.ListBetween(ctx, from, to)
	}
	if from > to {
		from, to = to, from
	}
	trades, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Date != "" && t.Date >= from && t.Date <= to {
			out = append(out, t)
		}
	}
	return out, nil
}

// SortByDate orders trades in place by date string, then creation time.
// Dates are fixed width YYYY-MM-DD so string order is calendar order.
func SortByDate(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Date != trades[j].Date {
			return trades[i].Date < trades[j].Date
		}
		return trades[i].CreatedAt < trades[j].CreatedAt
	})
}

// Clone returns a deep copy so callers never alias a store's slices.
func (t Trade) Clone() Trade {
	c := t
	if t.RiskPercent != nil {
		v := *t.RiskPercent
		c.RiskPercent = &v
	}
	c.KeyLevels = copyStrings(t.KeyLevels)
	c.Mistakes = copyStrings(t.Mistakes)
	return c
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
