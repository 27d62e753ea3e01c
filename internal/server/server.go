// Package server exposes the rating engine over HTTP.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"

	"github.com/actdevinbox/nfl-elo/internal/rating"
)

// Source supplies the inputs for a computation run.
type Source interface {
	LoadRatings() (map[string]float64, error)
	LoadGames() ([]rating.Game, error)
}

// Server holds the data source, the model config, and the last computed
// result for redisplay.
type Server struct {
	src Source
	cfg rating.Config

	mu      sync.RWMutex
	ratings map[string]float64
	games   []rating.Game
}

func New(src Source, cfg rating.Config) *Server {
	return &Server{src: src, cfg: cfg}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/compute", s.handleCompute).Methods(http.MethodPost)
	r.HandleFunc("/ratings", s.handleRatings).Methods(http.MethodGet)
	r.HandleFunc("/forecasts", s.handleForecasts).Methods(http.MethodGet)
	r.HandleFunc("/standings", s.handleStandings).Methods(http.MethodGet)
	return r
}

// handleCompute loads the schedule and initial ratings, runs the
// engine, caches the result, and returns the final ratings.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	initial, err := s.src.LoadRatings()
	if err != nil {
		log.Printf("loading ratings: %v", err)
		http.Error(w, "loading ratings failed", http.StatusBadGateway)
		return
	}
	games, err := s.src.LoadGames()
	if err != nil {
		log.Printf("loading games: %v", err)
		http.Error(w, "loading games failed", http.StatusBadGateway)
		return
	}

	final := rating.ComputeFinalRatings(initial, games, s.cfg)

	s.mu.Lock()
	s.ratings = final
	s.games = games
	s.mu.Unlock()

	writeJSON(w, final)
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ratings := s.ratings
	s.mu.RUnlock()
	if ratings == nil {
		http.Error(w, "no computed ratings yet; POST /compute first", http.StatusNotFound)
		return
	}
	writeJSON(w, ratings)
}

func (s *Server) handleForecasts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ratings, games := s.ratings, s.games
	s.mu.RUnlock()
	if ratings == nil {
		http.Error(w, "no computed ratings yet; POST /compute first", http.StatusNotFound)
		return
	}

	forecasts := make([]rating.Forecast, 0)
	for _, g := range games {
		if g.Completed() || g.Winner == "" || g.Loser == "" {
			continue
		}
		forecasts = append(forecasts, rating.ForecastGame(g, ratings, s.cfg))
	}
	writeJSON(w, forecasts)
}

// standingsRow is one line of the projected standings response.
type standingsRow struct {
	Team string `json:"team"`
	rating.Record
	TotalWins   float64 `json:"totalWins"`
	TotalLosses float64 `json:"totalLosses"`
	Elo         float64 `json:"elo"`
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ratings, games := s.ratings, s.games
	s.mu.RUnlock()
	if ratings == nil {
		http.Error(w, "no computed ratings yet; POST /compute first", http.StatusNotFound)
		return
	}

	records := rating.ProjectedRecords(ratings, games, s.cfg)
	rows := make([]standingsRow, 0, len(records))
	for team, rec := range records {
		rows = append(rows, standingsRow{
			Team:        team,
			Record:      rec,
			TotalWins:   rec.TotalWins(),
			TotalLosses: rec.TotalLosses(),
			Elo:         ratings[team],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalWins != rows[j].TotalWins {
			return rows[i].TotalWins > rows[j].TotalWins
		}
		return rows[i].Team < rows[j].Team
	})
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
