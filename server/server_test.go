package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

var thursday = time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func testConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.RateLimit.Enabled = false
	return cfg
}

func newTestServer(t *testing.T) (*Server, journal.Store) {
	t.Helper()
	store := journal.NewMemStore()
	t.Cleanup(func() { store.Close() })
	return New(store, testConfig(), zerolog.Nop(), WithClock(func() time.Time { return thursday })), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func seed(t *testing.T, store journal.Store, trades ...journal.NewTrade) {
	t.Helper()
	for i, nt := range trades {
		if nt.CreatedAt == 0 {
			nt.CreatedAt = int64(i + 1)
		}
		_, err := store.Create(context.Background(), nt)
		require.NoError(t, err)
	}
}

func nt(date, symbol string, r float64, mistakes ...string) journal.NewTrade {
	return journal.NewTrade{Date: date, Symbol: symbol, RealisedR: ptr(r), Mistakes: mistakes}
}

func TestTradeCRUD(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/trades", map[string]any{
		"date": "2024-03-12", "symbol": "NQ", "realisedR": 1.5, "model": "Breakout",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	created := decode[journal.Trade](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1.5, created.MaxR)
	assert.Equal(t, "Long", created.Position)

	rec = do(t, h, http.MethodGet, "/api/trades", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]journal.Trade](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/trades/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[journal.Trade](t, rec))

	rec = do(t, h, http.MethodPatch, "/api/trades/"+created.ID, map[string]any{"realisedR": -1, "id": "hijack"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[journal.Trade](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, -1.0, updated.RealisedR)
	assert.Equal(t, "Breakout", updated.Model)

	rec = do(t, h, http.MethodDelete, "/api/trades/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = do(t, h, method, "/api/trades/"+created.ID, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		apiErr := decode[APIError](t, rec)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "NOT_FOUND", apiErr.ErrorCode)
	}

	rec = do(t, h, http.MethodPatch, "/api/trades/missing", map[string]any{"symbol": "ES"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTradeRejectsBadInput(t *testing.T) {
	t.Parallel()
	s, store := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/trades", map[string]any{"date": "2024-03-12", "realisedR": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decode[struct {
		ErrorCode string               `json:"error_code"`
		Details   []journal.FieldError `json:"details"`
	}](t, rec)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
	require.NotEmpty(t, apiErr.Details)
	assert.Equal(t, "symbol", apiErr.Details[0].Field)

	rec = do(t, h, http.MethodPost, "/api/trades", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[APIError](t, rec).ErrorCode)

	rec = do(t, h, http.MethodPatch, "/api/trades/any", map[string]any{"date": "14/03/2024"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	trades, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestDeleteAllTrades(t *testing.T) {
	t.Parallel()
	s, store := newTestServer(t)
	seed(t, store, nt("2024-03-01", "NQ", 1), nt("2024-03-02", "ES", -1))

	rec := do(t, s.Handler(), http.MethodDelete, "/api/trades", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s.Handler(), http.MethodGet, "/api/trades", nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestTradesSortedByDate(t *testing.T) {
	t.Parallel()
	s, store := newTestServer(t)
	seed(t, store, nt("2024-03-05", "C", 1), nt("2024-03-01", "A", 1), nt("2024-03-03", "B", 1))

	rec := do(t, s.Handler(), http.MethodGet, "/api/trades", nil)
	trades := decode[[]journal.Trade](t, rec)
	require.Len(t, trades, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{trades[0].Symbol, trades[1].Symbol, trades[2].Symbol})
}

func TestSettings(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, journal.DefaultSettings(), decode[journal.Settings](t, rec))

	rec = do(t, h, http.MethodPost, "/api/settings", map[string]any{"accounts": []string{"Prop"}, "tiltThreshold": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[journal.Settings](t, rec)
	assert.Equal(t, []string{"Prop"}, saved.Accounts)
	assert.Equal(t, 3, saved.TiltThreshold)
	assert.Equal(t, journal.DefaultSettings().Models, saved.Models)

	rec = do(t, h, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, saved, decode[journal.Settings](t, rec))

	rec = do(t, h, http.MethodPost, "/api/settings", map[string]any{"accounts": []string{""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/settings", "[1,2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsStats(t *testing.T) {
	t.Parallel()
	s, store := newTestServer(t)
	seed(t, store,
		nt("2024-03-11", "NQ", 2),
		nt("2024-03-12", "NQ", 1),
		nt("2024-02-01", "NQ", -1),
	)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/analytics/stats?filter=month", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2.0, stats["n"])
	assert.Equal(t, 3.0, stats["totalR"])
	assert.Equal(t, "Infinity", stats["profitFactor"])

	rec = do(t, h, http.MethodGet, "/api/analytics/stats", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3.0, stats["n"])
	assert.Equal(t, 3.0, stats["profitFactor"])

	rec = do(t, h, http.MethodGet, "/api/analytics/stats?filter=custom&from=2024-03-12&to=2024-03-01", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2.0, stats["n"])

	rec = do(t, h, http.MethodGet, "/api/analytics/stats?filter=year&year=2023", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0.0, stats["n"])
}

func TestAnalyticsBadParameters(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	for _, path := range []string{
		"/api/analytics/stats?filter=fortnight",
		"/api/analytics/equity?filter=custom&from=yesterday&to=2024-01-01",
		"/api/analytics/days?filter=year&year=abc",
		"/api/analytics/performance?by=weather",
		"/api/analytics/calendar?month=13",
		"/api/analytics/calendar?year=0",
	} {
		rec := do(t, s.Handler(), http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "INVALID_PARAMETER", decode[APIError](t, rec).ErrorCode, path)
	}
}

func TestAnalyticsViews(t *testing.T) {
	t.Parallel()
	s, store := newTestServer(t)
	seed(t, store,
		nt("2024-03-11", "NQ", 2),
		nt("2024-03-11", "ES", -1, "FOMO"),
		nt("2024-03-13", "NQ", 0.5, "FOMO", "Late entry"),
	)
	h := s.Handler()

	equity := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/equity", nil))
	require.Len(t, equity, 3)
	assert.Equal(t, 1.5, equity[2]["y"])

	dist := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/distribution", nil))
	assert.Len(t, dist, 8)

	days := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/days", nil))
	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-11", days[0]["date"])

	heat := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/heatmap", nil))
	assert.Len(t, heat, 7)

	mistakes := decode[mistakesResponse](t, do(t, h, http.MethodGet, "/api/analytics/mistakes", nil))
	require.Len(t, mistakes.Mistakes, 2)
	assert.Equal(t, "FOMO", mistakes.Mistakes[0].Mistake)
	assert.Equal(t, 2, mistakes.Mistakes[0].Trades)
	assert.Equal(t, 1, mistakes.Scenario.Clean.Trades)

	strategies := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/performance", nil))
	require.Len(t, strategies, 1)
	assert.Equal(t, "Unknown", strategies[0]["name"])
	assert.Contains(t, strategies[0], "profitFactor")

	dow := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/performance?by=dow", nil))
	assert.Len(t, dow, 7)

	symbols := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/performance?by=symbol", nil))
	require.Len(t, symbols, 2)
	assert.Equal(t, "NQ", symbols[0]["label"])

	month := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/calendar", nil))
	assert.Equal(t, 2024.0, month["year"])
	assert.Equal(t, 3.0, month["month"])
	assert.Equal(t, 3.0, month["trades"])
	assert.Equal(t, 2.0, month["activeDays"])

	empty := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/analytics/calendar?year=2023&month=1", nil))
	assert.Equal(t, 0.0, empty["trades"])
	assert.Nil(t, empty["bestDay"])
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, h, http.MethodGet, "/api/trades", nil)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tradejournal_http_requests_total")
	assert.Contains(t, body, "tradejournal_http_request_duration_seconds")
	assert.Contains(t, body, "tradejournal_trades 0")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	s := New(journal.NewMemStore(), cfg, zerolog.Nop())

	assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/api/trades", nil).Code)
	rec := do(t, s.Handler(), http.MethodGet, "/api/trades", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode[APIError](t, rec).ErrorCode)

	// Health checks are outside the limited group.
	assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/healthz", nil).Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDiscipline(t *testing.T) {
	t.Parallel()
	store := journal.NewMemStore()
	s := New(store, testConfig(), zerolog.Nop(),
		WithClock(func() time.Time { return thursday }),
		WithDiscipline(config.DisciplineConfig{MaxDailyLossR: 2}))
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/discipline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"allowed":true,"violations":[],"snapshot":{"today":"2024-03-14","weekStart":"2024-03-11","dayR":0,"weekR":0,"dayTrades":0,"lossStreak":0}}`, rec.Body.String())

	seed(t, store, nt("2024-03-14", "NQ", -1), nt("2024-03-14", "ES", -1.5))

	var d struct {
		Allowed    bool `json:"allowed"`
		Violations []struct {
			Code string `json:"code"`
		} `json:"violations"`
	}
	rec = do(t, h, http.MethodGet, "/api/discipline", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 2)
	assert.Equal(t, "TILT", d.Violations[0].Code)
	assert.Equal(t, "DAILY_LOSS_LIMIT", d.Violations[1].Code)
}

func TestRequestLogCarriesComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(journal.NewMemStore(), testConfig(), zerolog.New(&buf))

	rec := do(t, s.Handler(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "server", line["component"])
	assert.Equal(t, "/healthz", line["path"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
}
