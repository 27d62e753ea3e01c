package schedule

import (
	"strings"
	"testing"
)

func TestReadGamesCSV(t *testing.T) {
	in := `week,winner,winner_score,winner_away,loser,loser_score
1,Eagles,24,false,Cowboys,10
2,Bills,,true,Jets,
3,Chiefs,N/A,yes,Broncos,null
`
	games, err := ReadGamesCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}

	if !games[0].Completed() {
		t.Error("row 1 should be completed")
	}
	if games[0].Winner != "Eagles" || games[0].Loser != "Cowboys" || games[0].WinnerAway {
		t.Errorf("row 1 parsed wrong: %+v", games[0])
	}
	if *games[0].WinnerScore != 24 || *games[0].LoserScore != 10 {
		t.Errorf("row 1 scores wrong: %+v", games[0])
	}

	// Empty scores: future game.
	if games[1].Completed() {
		t.Error("row 2 should be future")
	}
	if !games[1].WinnerAway {
		t.Error("row 2 winner_away should be true")
	}

	// Garbage and "null" score text: coerced to future, not an error.
	if games[2].Completed() {
		t.Error("row 3 should be future")
	}
	if !games[2].WinnerAway {
		t.Error("row 3 'yes' should parse as true")
	}
}

func TestReadGamesJSON(t *testing.T) {
	in := `[
		{"week":1,"winner":"Eagles","winnerScore":24,"winnerIsAway":false,"loser":"Cowboys","loserScore":10},
		{"week":2,"winner":"Bills","winnerScore":null,"winnerIsAway":true,"loser":"Jets","loserScore":null},
		{"week":3,"winner":"Chiefs","winnerScore":"31","winnerIsAway":false,"loser":"Broncos","loserScore":"17"},
		{"week":4,"winner":"Rams","winnerScore":"TBD","winnerIsAway":false,"loser":"Saints","loserScore":""}
	]`
	games, err := ReadGamesJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 4 {
		t.Fatalf("got %d games, want 4", len(games))
	}
	if !games[0].Completed() || games[1].Completed() {
		t.Error("completed/future classification wrong for rows 1-2")
	}
	// Quoted numeric scores still count.
	if !games[2].Completed() {
		t.Error("quoted scores should classify as completed")
	}
	if *games[2].WinnerScore != 31 {
		t.Errorf("quoted score parsed as %v", *games[2].WinnerScore)
	}
	// Unparseable text is a future game, never an error.
	if games[3].Completed() {
		t.Error("row 4 should be future")
	}
}

func TestReadRatingsJSON(t *testing.T) {
	in := `{"Eagles": 1612.5, "Cowboys": 1480}`
	ratings, err := ReadRatingsJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if ratings["Eagles"] != 1612.5 || ratings["Cowboys"] != 1480 {
		t.Errorf("ratings parsed wrong: %v", ratings)
	}
}
