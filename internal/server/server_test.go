package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/actdevinbox/nfl-elo/internal/rating"
)

type stubSource struct {
	ratings map[string]float64
	games   []rating.Game
}

func (s stubSource) LoadRatings() (map[string]float64, error) { return s.ratings, nil }
func (s stubSource) LoadGames() ([]rating.Game, error)        { return s.games, nil }

func fp(v float64) *float64 { return &v }

func testServer() *httptest.Server {
	src := stubSource{
		ratings: map[string]float64{"A": 1500, "B": 1500},
		games: []rating.Game{
			{Week: 1, Winner: "A", Loser: "B", WinnerScore: fp(24), LoserScore: fp(10)},
			{Week: 2, Winner: "B", Loser: "A", WinnerAway: true},
		},
	}
	s := New(src, rating.DefaultConfig())
	return httptest.NewServer(s.Router())
}

func TestRatingsBeforeCompute(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ratings")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /ratings before compute = %d, want 404", resp.StatusCode)
	}
}

func TestComputeThenRead(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/compute", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /compute = %d", resp.StatusCode)
	}
	var ratings map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&ratings); err != nil {
		t.Fatal(err)
	}
	if ratings["A"] <= 1500 || ratings["B"] >= 1500 {
		t.Errorf("compute result looks wrong: %v", ratings)
	}

	// Forecasts cover the one future game.
	fresp, err := http.Get(ts.URL + "/forecasts")
	if err != nil {
		t.Fatal(err)
	}
	defer fresp.Body.Close()
	var forecasts []rating.Forecast
	if err := json.NewDecoder(fresp.Body).Decode(&forecasts); err != nil {
		t.Fatal(err)
	}
	if len(forecasts) != 1 {
		t.Fatalf("got %d forecasts, want 1", len(forecasts))
	}
	// Week 2: B travels to A, and A is now rated higher.
	f := forecasts[0]
	if f.HomeTeam != "A" || f.AwayTeam != "B" || f.Favored != "A" {
		t.Errorf("forecast = %+v", f)
	}
	if f.Margin < 0 {
		t.Errorf("margin = %v, want >= 0", f.Margin)
	}

	// Standings: A leads on total wins.
	sresp, err := http.Get(ts.URL + "/standings")
	if err != nil {
		t.Fatal(err)
	}
	defer sresp.Body.Close()
	var rows []struct {
		Team      string  `json:"team"`
		Wins      int     `json:"wins"`
		TotalWins float64 `json:"totalWins"`
	}
	if err := json.NewDecoder(sresp.Body).Decode(&rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d standings rows, want 2", len(rows))
	}
	if rows[0].Team != "A" || rows[0].Wins != 1 {
		t.Errorf("standings leader = %+v, want A with 1 win", rows[0])
	}
	if rows[0].TotalWins <= float64(rows[0].Wins) {
		t.Errorf("leader totalWins = %v, want fractional projection added", rows[0].TotalWins)
	}
}
