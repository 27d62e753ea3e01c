// Package rating implements the logistic team-rating model and the
// forecasts derived from it. Everything here is pure computation over
// in-memory data; loading and persistence live elsewhere.
package rating

import (
	"math"
	"sort"
)

// Config holds the model parameters. Zero values are not meaningful;
// start from DefaultConfig and override fields at the boundary.
type Config struct {
	K                  float64 // base rating-change scale
	HomeFieldAdvantage float64 // points credited to the home side's effective rating
	HalfLifeWeeks      float64 // recency-decay half-life, in weeks
	MeanElo            float64 // rating seeded for teams not yet rated
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{
		K:                  50,
		HomeFieldAdvantage: 25,
		HalfLifeWeeks:      12,
		MeanElo:            1500,
	}
}

// Game represents one row of the schedule. For completed games Winner
// and Loser name the actual result; for future games they are just the
// two scheduled participants, and WinnerAway still flags which slot is
// the traveling side.
type Game struct {
	Week        int
	Winner      string
	Loser       string
	WinnerScore *float64 // nil if not played
	LoserScore  *float64
	WinnerAway  bool
}

// Completed reports whether both scores are present and finite. This
// is the sole completed-vs-future predicate in the system.
func (g Game) Completed() bool {
	return finite(g.WinnerScore) && finite(g.LoserScore)
}

// Home returns the home team's name per the schedule slots.
func (g Game) Home() string {
	if g.WinnerAway {
		return g.Loser
	}
	return g.Winner
}

// Away returns the away team's name per the schedule slots.
func (g Game) Away() string {
	if g.WinnerAway {
		return g.Winner
	}
	return g.Loser
}

func finite(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// ratingOf looks a team up with the lazy MeanElo default. It never
// mutates the map; callers write back only when a game changes a rating.
func ratingOf(ratings map[string]float64, team string, cfg Config) float64 {
	if r, ok := ratings[team]; ok {
		return r
	}
	return cfg.MeanElo
}

// ComputeFinalRatings folds the completed games, in non-decreasing week
// order, over the initial ratings and returns the resulting map. Games
// within the same week keep their input order. The input map is never
// modified; with zero completed games the output is a copy of it.
func ComputeFinalRatings(initial map[string]float64, games []Game, cfg Config) map[string]float64 {
	ratings := make(map[string]float64, len(initial))
	for team, r := range initial {
		ratings[team] = r
	}

	completed := make([]Game, 0, len(games))
	weeksCompleted := 0
	for _, g := range games {
		if g.Winner == "" || g.Loser == "" {
			continue
		}
		if !g.Completed() {
			continue
		}
		completed = append(completed, g)
		if g.Week > weeksCompleted {
			weeksCompleted = g.Week
		}
	}
	if len(completed) == 0 {
		return ratings
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Week < completed[j].Week
	})

	lambda := math.Ln2 / cfg.HalfLifeWeeks
	for _, g := range completed {
		winnerPrior := ratingOf(ratings, g.Winner, cfg)
		loserPrior := ratingOf(ratings, g.Loser, cfg)

		// HFA from the winner's perspective at the moment of the game.
		hfaAdj := cfg.HomeFieldAdvantage
		if g.WinnerAway {
			hfaAdj = -cfg.HomeFieldAdvantage
		}

		expected := 1.0 / (1.0 + math.Pow(10, -((winnerPrior+hfaAdj)-loserPrior)/400.0))

		mov := *g.WinnerScore - *g.LoserScore
		if mov < 1 {
			mov = 1
		}

		weekWeight := math.Exp(-lambda * float64(weeksCompleted-g.Week))
		if weekWeight > 1 {
			weekWeight = 1
		}

		// Margin bonus shrinks as the rating gap widens, damping
		// blowout swings between already-separated teams.
		closeness := 2.2 / (math.Abs(winnerPrior-loserPrior)*0.001 + 2.2)
		kEff := cfg.K + mov*closeness*weekWeight

		delta := kEff * (1 - expected)
		ratings[g.Winner] = winnerPrior + delta
		ratings[g.Loser] = loserPrior - delta
	}

	return ratings
}
