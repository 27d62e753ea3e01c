// Package store persists team ratings and the game log in Postgres.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/actdevinbox/nfl-elo/internal/rating"
)

// Store wraps a Postgres connection and provides methods to persist and
// retrieve ratings and schedule data.
type Store struct {
	DB *sql.DB
}

// Open connects to Postgres using the given connection string and
// verifies the connection early.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS teams (
		    name TEXT PRIMARY KEY,
		    elo  DOUBLE PRECISION NOT NULL DEFAULT 1500
		);`,
		`CREATE TABLE IF NOT EXISTS games (
		    id           SERIAL PRIMARY KEY,
		    week         INT  NOT NULL,
		    winner       TEXT NOT NULL,
		    loser        TEXT NOT NULL,
		    winner_score DOUBLE PRECISION,
		    loser_score  DOUBLE PRECISION,
		    winner_away  BOOLEAN NOT NULL DEFAULT FALSE
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// LoadRatings fetches the current rating for every known team.
func (s *Store) LoadRatings() (map[string]float64, error) {
	rows, err := s.DB.Query(`SELECT name, elo FROM teams`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]float64)
	for rows.Next() {
		var name string
		var elo float64
		if err := rows.Scan(&name, &elo); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		ratings[name] = elo
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}
	return ratings, nil
}

// SaveRatings upserts the full rating map in one transaction.
func (s *Store) SaveRatings(ratings map[string]float64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin SaveRatings tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
	    INSERT INTO teams (name, elo) VALUES ($1, $2)
	    ON CONFLICT (name) DO UPDATE SET elo = EXCLUDED.elo
	`
	for name, elo := range ratings {
		if _, err := tx.Exec(q, name, elo); err != nil {
			return fmt.Errorf("upserting team %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveRatings tx: %w", err)
	}
	return nil
}

// LoadGames fetches the full game log ordered by week then insertion
// order, which fixes the processing order for games in the same week.
func (s *Store) LoadGames() ([]rating.Game, error) {
	const q = `
	    SELECT week, winner, loser, winner_score, loser_score, winner_away
	    FROM games
	    ORDER BY week, id
	`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []rating.Game
	for rows.Next() {
		var g rating.Game
		var ws, ls sql.NullFloat64
		if err := rows.Scan(&g.Week, &g.Winner, &g.Loser, &ws, &ls, &g.WinnerAway); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		if ws.Valid {
			v := ws.Float64
			g.WinnerScore = &v
		}
		if ls.Valid {
			v := ls.Float64
			g.LoserScore = &v
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game rows: %w", err)
	}
	return games, nil
}

// ReplaceSchedule swaps the stored game log for the given one in a
// single transaction.
func (s *Store) ReplaceSchedule(games []rating.Game) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin ReplaceSchedule tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM games`); err != nil {
		return fmt.Errorf("clearing games: %w", err)
	}
	const q = `
	    INSERT INTO games (week, winner, loser, winner_score, loser_score, winner_away)
	    VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, g := range games {
		if _, err := tx.Exec(q, g.Week, g.Winner, g.Loser,
			nullScore(g.WinnerScore), nullScore(g.LoserScore), g.WinnerAway); err != nil {
			return fmt.Errorf("inserting game week %d %s/%s: %w", g.Week, g.Winner, g.Loser, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ReplaceSchedule tx: %w", err)
	}
	return nil
}

func nullScore(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
