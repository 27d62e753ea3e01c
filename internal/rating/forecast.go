package rating

import "math"

// pointsPerLogit converts a logit-scale probability margin into an
// expected point spread. Empirical fit; fixed, not configurable.
const pointsPerLogit = 0.147

const probClamp = 1e-12

// Forecast is the model's view of one future game.
type Forecast struct {
	HomeTeam string  `json:"homeTeam"`
	AwayTeam string  `json:"awayTeam"`
	Favored  string  `json:"favored"`
	WinProb  float64 `json:"winProb"` // probability the favored side wins
	Margin   float64 `json:"margin"`  // predicted spread in points, >= 0
}

// Record is a team's season outlook: actual results plus the expected
// wins and losses from games not yet played. ProjWins/ProjLosses are
// expectations under the model, not rounded outcomes.
type Record struct {
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	ProjWins   float64 `json:"projWins"`
	ProjLosses float64 `json:"projLosses"`
}

func (r Record) TotalWins() float64   { return float64(r.Wins) + r.ProjWins }
func (r Record) TotalLosses() float64 { return float64(r.Losses) + r.ProjLosses }

// WinProbability returns the probability that the home side wins, given
// both ratings and the home-field bonus. Strictly increasing in
// homeRating, decreasing in awayRating.
func WinProbability(homeRating, awayRating, hfa float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -(homeRating+hfa-awayRating)/400.0))
}

// ForecastGame predicts a single future game. Teams absent from the
// rating map are seeded at MeanElo. The caller is responsible for only
// passing games that are not completed.
func ForecastGame(g Game, ratings map[string]float64, cfg Config) Forecast {
	home, away := g.Home(), g.Away()
	pHome := WinProbability(
		ratingOf(ratings, home, cfg),
		ratingOf(ratings, away, cfg),
		cfg.HomeFieldAdvantage,
	)

	f := Forecast{HomeTeam: home, AwayTeam: away}
	if pHome > 0.5 {
		f.Favored = home
		f.WinProb = pHome
	} else {
		f.Favored = away
		f.WinProb = 1 - pHome
	}

	// Clamp before the logit so the margin stays finite.
	p := f.WinProb
	if p < probClamp {
		p = probClamp
	} else if p > 1-probClamp {
		p = 1 - probClamp
	}
	f.Margin = math.Log(p/(1-p)) / pointsPerLogit
	return f
}

// ProjectedRecords tallies actual wins and losses from completed games
// and expected wins and losses from future ones, for every team in the
// rating map. Completed games naming an unrated team are skipped;
// future games count only when both sides are rated.
func ProjectedRecords(ratings map[string]float64, games []Game, cfg Config) map[string]Record {
	records := make(map[string]Record, len(ratings))
	for team := range ratings {
		records[team] = Record{}
	}

	for _, g := range games {
		if g.Completed() {
			if w, ok := records[g.Winner]; ok {
				w.Wins++
				records[g.Winner] = w
			}
			if l, ok := records[g.Loser]; ok {
				l.Losses++
				records[g.Loser] = l
			}
			continue
		}

		home, away := g.Home(), g.Away()
		h, hok := records[home]
		a, aok := records[away]
		if !hok || !aok {
			continue
		}
		pHome := WinProbability(ratings[home], ratings[away], cfg.HomeFieldAdvantage)
		h.ProjWins += pHome
		h.ProjLosses += 1 - pHome
		a.ProjWins += 1 - pHome
		a.ProjLosses += pHome
		records[home] = h
		records[away] = a
	}

	return records
}
