// Package server exposes a Player over HTTP so a remote game master can ask it
// for moves in a game tree.
package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"divercite/agent"
	"divercite/game"
	"divercite/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Request struct {
	State     game.TreeNode `json:"state"`
	Remaining float64       `json:"remaining_ms"`
}

type Response struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
	Depth  int    `json:"depth"`
	Leaves int64  `json:"leaves"`
}

type Server struct {
	mutex  sync.Mutex // A Player searches one position at a time
	player *agent.Player
	router chi.Router
}

func New(player *agent.Player) *Server {
	s := &Server{player: player}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"player": s.player.String()})
	})
	r.Post("/computeaction", s.handleComputeAction)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Msgf("agent %s listening on %s", s.player, addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleComputeAction(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	tree, err := game.NewTree(&req.State)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	remaining := milliseconds(req.Remaining)

	s.mutex.Lock()
	action, metric, err := s.player.FindMove(tree, remaining)
	s.mutex.Unlock()

	switch {
	case errors.Is(err, searcher.ErrNoLegalActions), errors.Is(err, searcher.ErrInconsistentScores):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	branch := action.(game.Branch)
	log.Debug().
		Str("request", middleware.GetReqID(r.Context())).
		Int("depth", metric.Depth).
		Msgf("answered with %s", branch)
	writeJSON(w, http.StatusOK, Response{Action: branch.String(), Index: branch.Index, Depth: metric.Depth, Leaves: metric.Leaves})
}

// milliseconds converts ms to a Duration, saturating at the Duration range.
func milliseconds(ms float64) time.Duration {
	ns := ms * float64(time.Millisecond)
	switch {
	case ns >= math.MaxInt64:
		return math.MaxInt64
	case ns <= math.MinInt64:
		return math.MinInt64
	}
	return time.Duration(ns)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
