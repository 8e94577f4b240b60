package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

// parseRange reads filter, from, to and year from the query string.
func parseRange(r *http.Request) (analytics.Range, error) {
	q := r.URL.Query()
	mode, err := analytics.ParseFilterMode(q.Get("filter"))
	if err != nil {
		return analytics.Range{}, err
	}
	rng := analytics.Range{Mode: mode, From: q.Get("from"), To: q.Get("to")}
	for _, d := range []string{rng.From, rng.To} {
		if d != "" && !journal.ValidDate(d) {
			return analytics.Range{}, fmt.Errorf("date %q is not YYYY-MM-DD", d)
		}
	}
	if y := q.Get("year"); y != "" {
		rng.Year, err = strconv.Atoi(y)
		if err != nil || rng.Year < 1 || rng.Year > 9999 {
			return analytics.Range{}, fmt.Errorf("year %q is not a calendar year", y)
		}
	}
	return rng, nil
}

// selected loads the journal and applies the request's date window. It
// writes the error response itself and reports whether to continue.
func (s *Server) selected(w http.ResponseWriter, r *http.Request) ([]journal.Trade, bool) {
	rng, err := parseRange(r)
	if err != nil {
		s.fail(w, r, errInvalidParameter(err))
		return nil, false
	}
	now := s.now()
	var trades []journal.Trade
	if from, to, bounded := rng.Bounds(now); bounded {
		trades, err = journal.LoadBetween(r.Context(), s.store, from, to)
	} else {
		trades, err = s.store.Load(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return analytics.Filter(trades, rng, now), true
}

func (s *Server) analyticsStats(w http.ResponseWriter, r *http.Request) {
	if trades, ok := s.selected(w, r); ok {
		render.JSON(w, r, analytics.ComputeStats(trades))
	}
}

func (s *Server) analyticsEquity(w http.ResponseWriter, r *http.Request) {
	if trades, ok := s.selected(w, r); ok {
		render.JSON(w, r, analytics.EquityCurve(trades))
	}
}

func (s *Server) analyticsDistribution(w http.ResponseWriter, r *http.Request) {
	if trades, ok := s.selected(w, r); ok {
		render.JSON(w, r, analytics.Distribution(trades))
	}
}

func (s *Server) analyticsDays(w http.ResponseWriter, r *http.Request) {
	if trades, ok := s.selected(w, r); ok {
		render.JSON(w, r, analytics.DailySeries(trades))
	}
}

func (s *Server) analyticsHeatmap(w http.ResponseWriter, r *http.Request) {
	if trades, ok := s.selected(w, r); ok {
		render.JSON(w, r, analytics.DayOfWeekHeat(trades))
	}
}

type mistakesResponse struct {
	Mistakes []analytics.RankedMistake `json:"mistakes"`
	Summary  analytics.MistakeSummary  `json:"summary"`
	Scenario analytics.Scenario        `json:"scenario"`
}

func (s *Server) analyticsMistakes(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.selected(w, r)
	if !ok {
		return
	}
	stats := analytics.MistakeBreakdown(trades)
	render.JSON(w, r, mistakesResponse{
		Mistakes: analytics.RankMistakes(stats),
		Summary:  analytics.SummarizeMistakes(stats),
		Scenario: analytics.MistakeScenario(trades),
	})
}

// analyticsPerformance groups by the "by" parameter. Strategy rows carry
// profit factor and expectancy as well.
func (s *Server) analyticsPerformance(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = string(analytics.DimStrategy)
	}
	dim, err := analytics.ParseDimension(by)
	if err != nil {
		s.fail(w, r, errInvalidParameter(err))
		return
	}
	trades, ok := s.selected(w, r)
	if !ok {
		return
	}
	if dim == analytics.DimStrategy {
		render.JSON(w, r, analytics.ByStrategy(trades))
		return
	}
	render.JSON(w, r, analytics.Performance(trades, dim))
}

// analyticsCalendar summarises one month, the current one by default. The
// date filter does not apply.
func (s *Server) analyticsCalendar(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, month := now.Year(), now.Month()

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			s.fail(w, r, errInvalidParameter(fmt.Errorf("year %q is not a calendar year", v)))
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			s.fail(w, r, errInvalidParameter(fmt.Errorf("month %q is not 1-12", v)))
			return
		}
		month = time.Month(m)
	}

	trades, err := s.store.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, analytics.SummarizeMonth(trades, year, month))
}

// getDiscipline checks the whole journal against the configured limits and
// the saved tilt threshold.
func (s *Server) getDiscipline(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trades, err := s.store.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d := risk.Evaluate(risk.NewPolicy(s.discipline, settings), trades, s.now())
	if !d.Allowed {
		s.log.Warn().Int("violations", len(d.Violations)).Msg("discipline limits breached")
	}
	render.JSON(w, r, d)
}
