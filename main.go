package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/actdevinbox/nfl-elo/internal/rating"
	"github.com/actdevinbox/nfl-elo/internal/schedule"
	"github.com/actdevinbox/nfl-elo/internal/server"
	"github.com/actdevinbox/nfl-elo/internal/store"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func floatEnv(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", k, v, err)
		return def
	}
	return f
}

// configFromEnv builds the model config, defaulting each parameter
// independently.
func configFromEnv() rating.Config {
	cfg := rating.DefaultConfig()
	cfg.K = floatEnv("ELO_K", cfg.K)
	cfg.HomeFieldAdvantage = floatEnv("ELO_HFA", cfg.HomeFieldAdvantage)
	cfg.HalfLifeWeeks = floatEnv("ELO_HALF_LIFE_WEEKS", cfg.HalfLifeWeeks)
	cfg.MeanElo = floatEnv("ELO_MEAN", cfg.MeanElo)
	return cfg
}

// fileSource adapts file-loaded data to the server's Source interface.
type fileSource struct {
	ratings map[string]float64
	games   []rating.Game
}

func (f fileSource) LoadRatings() (map[string]float64, error) { return f.ratings, nil }
func (f fileSource) LoadGames() ([]rating.Game, error)        { return f.games, nil }

func main() {
	log.SetFlags(log.LstdFlags)
	_ = godotenv.Load()

	schedulePath := flag.String("schedule", "", "schedule file (CSV or JSON)")
	ratingsPath := flag.String("ratings", "", "initial ratings JSON file")
	migrate := flag.Bool("migrate", false, "create database tables and exit")
	importSched := flag.Bool("import", false, "replace the stored schedule with the -schedule file")
	serve := flag.Bool("serve", false, "run the HTTP server")
	port := flag.String("port", getenv("PORT", "8080"), "HTTP port")
	flag.Parse()

	cfg := configFromEnv()

	var src server.Source
	var db *store.Store

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		s, err := store.Open(dsn)
		if err != nil {
			log.Fatalf("connecting to database: %v", err)
		}
		defer s.Close()
		db = s

		if *migrate {
			if err := s.Migrate(); err != nil {
				log.Fatal(err)
			}
			log.Println("migrated")
			return
		}
		if *importSched {
			if *schedulePath == "" {
				log.Fatal("-import requires -schedule")
			}
			games, err := schedule.LoadGamesFile(*schedulePath)
			if err != nil {
				log.Fatal(err)
			}
			if err := s.ReplaceSchedule(games); err != nil {
				log.Fatal(err)
			}
			log.Printf("imported %d games", len(games))
			return
		}
		src = s
	} else {
		if *schedulePath == "" {
			log.Fatal("set DATABASE_URL or pass -schedule")
		}
		games, err := schedule.LoadGamesFile(*schedulePath)
		if err != nil {
			log.Fatal(err)
		}
		initial := map[string]float64{}
		if *ratingsPath != "" {
			initial, err = schedule.LoadRatingsFile(*ratingsPath)
			if err != nil {
				log.Fatal(err)
			}
		}
		src = fileSource{ratings: initial, games: games}
	}

	if *serve {
		srv := &http.Server{
			Addr:         ":" + *port,
			Handler:      server.New(src, cfg).Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		log.Printf("listening on http://localhost:%s", *port)
		log.Fatal(srv.ListenAndServe())
	}

	initial, err := src.LoadRatings()
	if err != nil {
		log.Fatalf("loading ratings: %v", err)
	}
	games, err := src.LoadGames()
	if err != nil {
		log.Fatalf("loading games: %v", err)
	}

	final := rating.ComputeFinalRatings(initial, games, cfg)
	if db != nil {
		if err := db.SaveRatings(final); err != nil {
			log.Fatalf("saving ratings: %v", err)
		}
	}

	printStandings(final, games, cfg)
	printForecasts(final, games, cfg)
}

func printStandings(ratings map[string]float64, games []rating.Game, cfg rating.Config) {
	records := rating.ProjectedRecords(ratings, games, cfg)

	type row struct {
		team string
		rec  rating.Record
	}
	rows := make([]row, 0, len(records))
	for team, rec := range records {
		rows = append(rows, row{team, rec})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.rec.TotalWins() != b.rec.TotalWins() {
			return a.rec.TotalWins() > b.rec.TotalWins()
		}
		return a.team < b.team
	})

	fmt.Println("Projected standings")
	fmt.Printf("%-22s %3s %3s %7s %7s %8s\n",
		"Team", "W", "L", "ProjW", "ProjL", "Elo")
	for _, r := range rows {
		fmt.Printf("%-22s %3d %3d %7.2f %7.2f %8.1f\n",
			r.team,
			r.rec.Wins,
			r.rec.Losses,
			r.rec.TotalWins(),
			r.rec.TotalLosses(),
			ratings[r.team],
		)
	}
}

func printForecasts(ratings map[string]float64, games []rating.Game, cfg rating.Config) {
	fmt.Println("\nUpcoming games")
	for _, g := range games {
		if g.Completed() || g.Winner == "" || g.Loser == "" {
			continue
		}
		f := rating.ForecastGame(g, ratings, cfg)
		fmt.Printf("  wk %2d  %s at %s: %s by %.1f (%.0f%%)\n",
			g.Week, f.AwayTeam, f.HomeTeam, f.Favored, f.Margin, f.WinProb*100)
	}
}
