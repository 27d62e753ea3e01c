// Package schedule loads game logs and initial ratings from files.
// Score text that does not parse is coerced to "not played" rather
// than failing the load, since completeness classification depends on
// it downstream.
package schedule

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/actdevinbox/nfl-elo/internal/rating"
)

// row is the JSON shape of one schedule entry. Scores come through as
// raw JSON so that numbers, quoted numbers, null, and garbage strings
// all land in the same coercion path.
type row struct {
	Week        int             `json:"week"`
	Winner      string          `json:"winner"`
	Loser       string          `json:"loser"`
	WinnerScore json.RawMessage `json:"winnerScore"`
	LoserScore  json.RawMessage `json:"loserScore"`
	WinnerAway  bool            `json:"winnerIsAway"`
}

// ReadGamesCSV parses a schedule from CSV with the columns
// week,winner,winner_score,winner_away,loser,loser_score. A header row
// is detected by a non-numeric week column and skipped, as are rows
// whose week does not parse.
func ReadGamesCSV(r io.Reader) ([]rating.Game, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var games []rating.Game
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading schedule csv: %w", err)
		}
		week, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		games = append(games, rating.Game{
			Week:        week,
			Winner:      strings.TrimSpace(rec[1]),
			WinnerScore: coerceScore(rec[2]),
			WinnerAway:  asBool(rec[3]),
			Loser:       strings.TrimSpace(rec[4]),
			LoserScore:  coerceScore(rec[5]),
		})
	}
	return games, nil
}

// ReadGamesJSON parses a schedule from a JSON array of game objects.
func ReadGamesJSON(r io.Reader) ([]rating.Game, error) {
	var rows []row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding schedule json: %w", err)
	}
	games := make([]rating.Game, 0, len(rows))
	for _, rw := range rows {
		games = append(games, rating.Game{
			Week:        rw.Week,
			Winner:      rw.Winner,
			Loser:       rw.Loser,
			WinnerScore: coerceRawScore(rw.WinnerScore),
			LoserScore:  coerceRawScore(rw.LoserScore),
			WinnerAway:  rw.WinnerAway,
		})
	}
	return games, nil
}

// ReadRatingsJSON parses an initial rating map ({"team": 1500, ...}).
func ReadRatingsJSON(r io.Reader) (map[string]float64, error) {
	ratings := make(map[string]float64)
	if err := json.NewDecoder(r).Decode(&ratings); err != nil {
		return nil, fmt.Errorf("decoding ratings json: %w", err)
	}
	return ratings, nil
}

// LoadGamesFile reads a schedule file, choosing the format by
// extension (.json, otherwise CSV).
func LoadGamesFile(path string) ([]rating.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schedule: %w", err)
	}
	defer f.Close()
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ReadGamesJSON(f)
	}
	return ReadGamesCSV(f)
}

// LoadRatingsFile reads an initial rating map from a JSON file.
func LoadRatingsFile(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ratings: %w", err)
	}
	defer f.Close()
	return ReadRatingsJSON(f)
}

// coerceScore turns score text into *float64, treating anything
// unparseable or non-finite as "not played".
func coerceScore(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func coerceRawScore(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return nil
	}
	return coerceScore(strings.Trim(s, `"`))
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
