// Package server exposes the journal store and its analytics over a JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logging"
	"github.com/rustyeddy/tradejournal/journal"
)

// Server wires a Store to the HTTP routes.
type Server struct {
	store      journal.Store
	cfg        config.ServerConfig
	discipline config.DisciplineConfig
	log        zerolog.Logger
	metrics    *Metrics
	now        func() time.Time
	router     chi.Router
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces time.Now, which anchors the relative date filters.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithDiscipline sets the limits /api/discipline checks against.
func WithDiscipline(d config.DisciplineConfig) Option {
	return func(s *Server) { s.discipline = d }
}

func New(store journal.Store, cfg config.ServerConfig, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		store:      store,
		cfg:        cfg,
		discipline: config.Default().Discipline,
		log:        logging.Component(log, "server"),
		metrics:    NewMetrics(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if rl := s.cfg.RateLimit; rl.Enabled {
			r.Use(newRateLimiter(rl.RPS, rl.Burst, s.log).Handler)
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.listTrades)
			r.Post("/", s.createTrade)
			r.Delete("/", s.deleteAllTrades)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getTrade)
				r.Patch("/", s.updateTrade)
				r.Delete("/", s.deleteTrade)
			})
		})

		r.Get("/settings", s.getSettings)
		r.Post("/settings", s.saveSettings)
		r.Get("/discipline", s.getDiscipline)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/stats", s.analyticsStats)
			r.Get("/equity", s.analyticsEquity)
			r.Get("/distribution", s.analyticsDistribution)
			r.Get("/days", s.analyticsDays)
			r.Get("/calendar", s.analyticsCalendar)
			r.Get("/heatmap", s.analyticsHeatmap)
			r.Get("/mistakes", s.analyticsMistakes)
			r.Get("/performance", s.analyticsPerformance)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
