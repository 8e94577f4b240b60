package journal

import (
	"context"
	"sync"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// MemStore keeps trades in a map keyed by id. Nothing survives a restart.
type MemStore struct {
	mu       sync.RWMutex
	trades   map[string]Trade
	settings *Settings
	now      func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		trades: make(map[string]Trade),
		now:    time.Now,
	}
}

func (m *MemStore) Load(ctx context.Context) ([]Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Trade, 0, len(m.trades))
	for _, t := range m.trades {
		out = append(out, t.Clone())
	}
	SortByDate(out)
	return out, nil
}

func (m *MemStore) Save(ctx context.Context, trades []Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.trades = make(map[string]Trade, len(trades))
	for i, t := range trades {
		t = Normalize(t, now.Add(time.Duration(i)*time.Millisecond))
		m.trades[t.ID] = t
	}
	return nil
}

func (m *MemStore) Get(ctx context.Context, tradeID string) (Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trades[tradeID]
	if !ok {
		return Trade{}, ErrNotFound
	}
	return t.Clone(), nil
}

func (m *MemStore) Create(ctx context.Context, nt NewTrade) (Trade, error) {
	if err := Validate(nt); err != nil {
		return Trade{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := nt.Build(id.New(), m.now())
	m.trades[t.ID] = t
	return t.Clone(), nil
}

func (m *MemStore) Update(ctx context.Context, tradeID string, p TradePatch) (Trade, error) {
	if err := Validate(p); err != nil {
		return Trade{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.trades[tradeID]
	if !ok {
		return Trade{}, ErrNotFound
	}
	t := p.Apply(cur)
	m.trades[tradeID] = t
	return t.Clone(), nil
}

func (m *MemStore) Delete(ctx context.Context, tradeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[tradeID]; !ok {
		return ErrNotFound
	}
	delete(m.trades, tradeID)
	return nil
}

func (m *MemStore) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trades = make(map[string]Trade)
	return nil
}

func (m *MemStore) Settings(ctx context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return DefaultSettings(), nil
	}
	return m.settings.WithDefaults(), nil
}

func (m *MemStore) SaveSettings(ctx context.Context, s Settings) (Settings, error) {
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s = s.WithDefaults()
	m.settings = &s
	return s, nil
}

func (m *MemStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trades = make(map[string]Trade)
	m.settings = nil
	return nil
}

func (m *MemStore) Close() error { return nil }
