package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/journal"
)

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.store.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.trades.Set(float64(len(trades)))
	render.JSON(w, r, trades)
}

func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, t)
}

func (s *Server) createTrade(w http.ResponseWriter, r *http.Request) {
	var nt journal.NewTrade
	if err := render.DecodeJSON(r.Body, &nt); err != nil {
		s.fail(w, r, errInvalidRequest(err))
		return
	}
	t, err := s.store.Create(r.Context(), nt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Debug().Str("id", t.ID).Str("symbol", t.Symbol).Msg("trade created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, t)
}

func (s *Server) updateTrade(w http.ResponseWriter, r *http.Request) {
	var p journal.TradePatch
	if err := render.DecodeJSON(r.Body, &p); err != nil {
		s.fail(w, r, errInvalidRequest(err))
		return
	}
	t, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, t)
}

func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) deleteAllTrades(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAll(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info().Msg("all trades deleted")
	render.NoContent(w, r)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, settings)
}

func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	var in journal.Settings
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		s.fail(w, r, errInvalidRequest(err))
		return
	}
	saved, err := s.store.SaveSettings(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, saved)
}
