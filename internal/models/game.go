package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nba_dashboard/backend/internal/prediction"
)

// StatusFinal is stored for games imported from the season game log
const StatusFinal = "FINAL"

// Game represents an NBA game. Team IDs are stats.nba.com team IDs.
type Game struct {
	ID         int       `db:"id"`
	GameID     string    `db:"game_id"` // e.g. "0022500123"
	Season     string    `db:"season"`
	GameDate   time.Time `db:"game_date"`
	HomeTeamID int       `db:"home_team_id"`
	AwayTeamID int       `db:"away_team_id"`

	// Scores, null until the game has started
	HomeScore sql.NullInt32 `db:"home_score"`
	AwayScore sql.NullInt32 `db:"away_score"`

	// Status is "FINAL" for game-log rows, otherwise the scoreboard's status text
	// ("7:30 pm ET", "Q3 5:12", "Final/OT")
	Status string `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GameInput is used for creating/updating games from the game log or scoreboard
type GameInput struct {
	GameID     string `json:"gameId"`
	Season     string `json:"season"`
	GameDate   string `json:"gameDate"` // YYYY-MM-DD, US Eastern calendar date
	HomeTeamID int    `json:"homeTeamId"`
	AwayTeamID int    `json:"awayTeamId"`
	HomeScore  *int   `json:"homeScore,omitempty"`
	AwayScore  *int   `json:"awayScore,omitempty"`
	Status     string `json:"status"`
}

// ToGame converts GameInput (from API) to Game model.
// The calendar date is stored as midnight UTC so it never shifts a day on display.
func (gi *GameInput) ToGame() (*Game, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(gi.GameDate))
	if err != nil {
		return nil, fmt.Errorf("failed to parse game date %q: %w", gi.GameDate, err)
	}

	game := &Game{
		GameID:     gi.GameID,
		Season:     gi.Season,
		GameDate:   date.UTC(),
		HomeTeamID: gi.HomeTeamID,
		AwayTeamID: gi.AwayTeamID,
		Status:     strings.TrimSpace(gi.Status),
	}

	if gi.HomeScore != nil {
		game.HomeScore = sql.NullInt32{Int32: int32(*gi.HomeScore), Valid: true}
	}
	if gi.AwayScore != nil {
		game.AwayScore = sql.NullInt32{Int32: int32(*gi.AwayScore), Valid: true}
	}

	return game, nil
}

// IsFinal returns true if the game is completed
func (g *Game) IsFinal() bool {
	return strings.Contains(strings.ToLower(g.Status), "final")
}

// IsScheduled returns true if the status is still a tip-off time ("7:30 pm ET")
func (g *Game) IsScheduled() bool {
	status := strings.ToLower(g.Status)
	return strings.Contains(status, " am") || strings.Contains(status, " pm")
}

// IsActive returns true if the game is currently in progress
func (g *Game) IsActive() bool {
	return g.Status != "" && !g.IsFinal() && !g.IsScheduled()
}

// HasScores reports whether both scores are known
func (g *Game) HasScores() bool {
	return g.HomeScore.Valid && g.AwayScore.Valid
}

// Involves reports whether the team played in this game
func (g *Game) Involves(teamID int) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// ScoresFor returns (team, opponent) scores from teamID's side, nil when unknown
func (g *Game) ScoresFor(teamID int) (*int, *int) {
	home, away := nullInt(g.HomeScore), nullInt(g.AwayScore)
	if g.HomeTeamID == teamID {
		return home, away
	}
	return away, home
}

// ToHeadToHead converts the game into the engine's head-to-head record
func (g *Game) ToHeadToHead() prediction.HeadToHeadGame {
	return prediction.HeadToHeadGame{
		GameID:     g.GameID,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		GameDate:   g.GameDate.Format("2006-01-02"),
		HomeScore:  nullInt(g.HomeScore),
		AwayScore:  nullInt(g.AwayScore),
	}
}

func nullInt(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}
