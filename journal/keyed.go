package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Backend is a flat key space holding whole JSON documents, the same shape
// as browser local storage.
type Backend interface {
	// Read returns nil, nil for an absent key.
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// KeyedStore keeps the whole trade collection as one document under
// TradesKey and the settings under SettingsKey. Every mutation is a
// load, modify, save cycle.
type KeyedStore struct {
	mu  sync.Mutex
	b   Backend
	now func() time.Time
}

func NewKeyedStore(b Backend) *KeyedStore {
	return &KeyedStore{b: b, now: time.Now}
}

func (k *KeyedStore) Load(ctx context.Context) ([]Trade, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.load(ctx)
}

func (k *KeyedStore) Save(ctx context.Context, trades []Trade) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	out := make([]Trade, 0, len(trades))
	for i, t := range trades {
		out = append(out, Normalize(t, now.Add(time.Duration(i)*time.Millisecond)))
	}
	return k.save(ctx, out)
}

func (k *KeyedStore) Get(ctx context.Context, tradeID string) (Trade, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	trades, err := k.load(ctx)
	if err != nil {
		return Trade{}, err
	}
	for _, t := range trades {
		if t.ID == tradeID {
			return t, nil
		}
	}
	return Trade{}, ErrNotFound
}

func (k *KeyedStore) Create(ctx context.Context, nt NewTrade) (Trade, error) {
	if err := Validate(nt); err != nil {
		return Trade{}, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	trades, err := k.load(ctx)
	if err != nil {
		return Trade{}, err
	}
	t := nt.Build(id.New(), k.now())
	if err := k.save(ctx, append(trades, t)); err != nil {
		return Trade{}, err
	}
	return t, nil
}

func (k *KeyedStore) Update(ctx context.Context, tradeID string, p TradePatch) (Trade, error) {
	if err := Validate(p); err != nil {
		return Trade{}, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	trades, err := k.load(ctx)
	if err != nil {
		return Trade{}, err
	}
	for i, t := range trades {
		if t.ID != tradeID {
			continue
		}
		trades[i] = p.Apply(t)
		if err := k.save(ctx, trades); err != nil {
			return Trade{}, err
		}
		return trades[i], nil
	}
	return Trade{}, ErrNotFound
}

func (k *KeyedStore) Delete(ctx context.Context, tradeID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	trades, err := k.load(ctx)
	if err != nil {
		return err
	}
	for i, t := range trades {
		if t.ID == tradeID {
			return k.save(ctx, append(trades[:i], trades[i+1:]...))
		}
	}
	return ErrNotFound
}

func (k *KeyedStore) DeleteAll(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.save(ctx, []Trade{})
}

func (k *KeyedStore) Settings(ctx context.Context) (Settings, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.b.Read(ctx, SettingsKey)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if data == nil {
		return DefaultSettings(), nil
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", ErrCorrupt)
	}
	return s.WithDefaults(), nil
}

func (k *KeyedStore) SaveSettings(ctx context.Context, s Settings) (Settings, error) {
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	s = s.WithDefaults()
	data, err := json.Marshal(s)
	if err != nil {
		return Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := k.b.Write(ctx, SettingsKey, data); err != nil {
		return Settings{}, fmt.Errorf("write settings: %w", err)
	}
	return s, nil
}

func (k *KeyedStore) Reset(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.b.Remove(ctx, SettingsKey); err != nil {
		return fmt.Errorf("remove settings: %w", err)
	}
	if err := k.b.Remove(ctx, TradesKey); err != nil {
		return fmt.Errorf("remove trades: %w", err)
	}
	return nil
}

func (k *KeyedStore) Close() error {
	return k.b.Close()
}

func (k *KeyedStore) load(ctx context.Context) ([]Trade, error) {
	data, err := k.b.Read(ctx, TradesKey)
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}
	trades, filled, err := decodeTrades(data, k.now())
	if err != nil {
		return nil, err
	}
	// Persist assigned ids so they stay stable across loads.
	if filled {
		if err := k.save(ctx, trades); err != nil {
			return nil, err
		}
	}
	SortByDate(trades)
	return trades, nil
}

func (k *KeyedStore) save(ctx context.Context, trades []Trade) error {
	data, err := json.Marshal(trades)
	if err != nil {
		return fmt.Errorf("encode trades: %w", err)
	}
	if err := k.b.Write(ctx, TradesKey, data); err != nil {
		return fmt.Errorf("write trades: %w", err)
	}
	return nil
}
