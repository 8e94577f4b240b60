package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "journal.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	created, err := s.Create(ctx, newTrade("2024-03-01", "NQ", 1))
	require.NoError(t, err)
	_, err = s.SaveSettings(ctx, Settings{Accounts: []string{"Personal"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, TradesKey)
	assert.Contains(t, doc, SettingsKey)

	// A second store over the same file sees the same journal.
	again, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := again.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestFileStoreLegacyDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "journal.json")
	legacy := `{"tj_multi_trades_v1":[{"date":"2024-01-02","symbol":"NQ","rr":2,"direction":"Short"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	trades, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 2.0, trades[0].RealisedR)
	assert.Equal(t, "Short", trades[0].Position)

	settings, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestFileStoreCorrupt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = NewFileStore("")
	assert.Error(t, err)
}

func TestKeyedStoreLegacyIDsStable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	legacy := `[{"date":"2024-01-02","symbol":"NQ","rr":2},{"date":"2024-01-03","symbol":"ES","rr":-1}]`

	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"`+TradesKey+`":`+legacy+`}`), 0o644))
	file, err := NewFileStore(path)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("test:"+TradesKey, legacy))
	rdb := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")

	for name, s := range map[string]*KeyedStore{"file": file, "redis": rdb} {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			first, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, first, 2)

			again, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, again)

			got, err := s.Get(ctx, first[0].ID)
			require.NoError(t, err)
			assert.Equal(t, "NQ", got.Symbol)

			require.NoError(t, s.Delete(ctx, first[0].ID))
			left, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, left, 1)
			assert.Equal(t, first[1].ID, left[0].ID)
		})
	}
}
