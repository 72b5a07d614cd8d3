package models

import (
	"database/sql"
	"time"

	"nba_dashboard/backend/internal/prediction"
)

// TeamSeasonStats represents season-level statistics for a team
type TeamSeasonStats struct {
	ID     int    `db:"id"`
	TeamID int    `db:"team_id"`
	Season string `db:"season"`

	// Record
	GamesPlayed int `db:"games_played"`
	Wins        int `db:"wins"`
	Losses      int `db:"losses"`

	// Per-game box score
	PointsPerGame    sql.NullFloat64 `db:"points_per_game"`
	OppPointsPerGame sql.NullFloat64 `db:"opp_points_per_game"`
	FieldGoalPct     sql.NullFloat64 `db:"field_goal_pct"`
	ThreePointPct    sql.NullFloat64 `db:"three_point_pct"`
	FreeThrowPct     sql.NullFloat64 `db:"free_throw_pct"`
	AssistsPerGame   sql.NullFloat64 `db:"assists_per_game"`
	ReboundsPerGame  sql.NullFloat64 `db:"rebounds_per_game"`
	TurnoversPerGame sql.NullFloat64 `db:"turnovers_per_game"`

	// Advanced
	OffensiveRating sql.NullFloat64 `db:"offensive_rating"`
	DefensiveRating sql.NullFloat64 `db:"defensive_rating"`
	Pace            sql.NullFloat64 `db:"pace"`

	// Aggregates (computed from the game log)
	TotalPointsScored  sql.NullFloat64 `db:"total_points_scored"`
	TotalPointsAllowed sql.NullFloat64 `db:"total_points_allowed"`
	HomeWins           int             `db:"home_wins"`
	HomeLosses         int             `db:"home_losses"`
	AwayWins           int             `db:"away_wins"`
	AwayLosses         int             `db:"away_losses"`
	PythagoreanWinPct  sql.NullFloat64 `db:"pythagorean_win_pct"`
	LuckFactor         sql.NullFloat64 `db:"luck_factor"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasSplits reports whether home/away records have been aggregated
func (s *TeamSeasonStats) HasSplits() bool {
	return s.HomeWins+s.HomeLosses+s.AwayWins+s.AwayLosses > 0
}

// ToEngine converts the stored row into the prediction engine's input.
// Point totals fall back to per-game averages times games played when the aggregates
// have not been computed yet.
func (s *TeamSeasonStats) ToEngine(team *Team) prediction.TeamSeasonStats {
	out := prediction.TeamSeasonStats{
		TeamID:             team.TeamID,
		Abbreviation:       team.Abbreviation,
		Name:               team.Name,
		Wins:               s.Wins,
		Losses:             s.Losses,
		TotalPointsScored:  pointsTotal(s.TotalPointsScored, s.PointsPerGame, s.GamesPlayed),
		TotalPointsAllowed: pointsTotal(s.TotalPointsAllowed, s.OppPointsPerGame, s.GamesPlayed),
	}

	if s.OffensiveRating.Valid {
		out.OffensiveRating = prediction.Float(s.OffensiveRating.Float64)
	}
	if s.DefensiveRating.Valid {
		out.DefensiveRating = prediction.Float(s.DefensiveRating.Float64)
	}
	if s.Pace.Valid {
		out.Pace = prediction.Float(s.Pace.Float64)
	}

	if s.HasSplits() {
		out.HomeRecord = &prediction.HomeAwayRecord{Wins: s.HomeWins, Losses: s.HomeLosses}
		out.AwayRecord = &prediction.HomeAwayRecord{Wins: s.AwayWins, Losses: s.AwayLosses}
	}

	return out
}

func pointsTotal(total, perGame sql.NullFloat64, gamesPlayed int) float64 {
	if total.Valid && total.Float64 > 0 {
		return total.Float64
	}
	if perGame.Valid {
		return perGame.Float64 * float64(gamesPlayed)
	}
	return 0
}

// TeamStatsInput is one row of leaguedashteamstats. Base and Advanced measure types
// share the identity columns and are merged with Merge.
type TeamStatsInput struct {
	TeamID   int    `json:"TEAM_ID"`
	TeamName string `json:"TEAM_NAME"`

	GP int `json:"GP"`
	W  int `json:"W"`
	L  int `json:"L"`

	// Base
	PTS    *float64 `json:"PTS,omitempty"`
	OppPTS *float64 `json:"OPP_PTS,omitempty"`
	FGPct  *float64 `json:"FG_PCT,omitempty"`
	FG3Pct *float64 `json:"FG3_PCT,omitempty"`
	FTPct  *float64 `json:"FT_PCT,omitempty"`
	AST    *float64 `json:"AST,omitempty"`
	REB    *float64 `json:"REB,omitempty"`
	TOV    *float64 `json:"TOV,omitempty"`

	// Advanced
	OffRating *float64 `json:"OFF_RATING,omitempty"`
	DefRating *float64 `json:"DEF_RATING,omitempty"`
	Pace      *float64 `json:"PACE,omitempty"`
}

// Merge copies the advanced columns from another row of the same team
func (in *TeamStatsInput) Merge(advanced *TeamStatsInput) {
	if advanced == nil {
		return
	}
	if advanced.OffRating != nil {
		in.OffRating = advanced.OffRating
	}
	if advanced.DefRating != nil {
		in.DefRating = advanced.DefRating
	}
	if advanced.Pace != nil {
		in.Pace = advanced.Pace
	}
	if in.OppPTS == nil && advanced.OppPTS != nil {
		in.OppPTS = advanced.OppPTS
	}
}

// ToTeamSeasonStats converts TeamStatsInput (from API) to TeamSeasonStats model
func (in *TeamStatsInput) ToTeamSeasonStats(season string) *TeamSeasonStats {
	stats := &TeamSeasonStats{
		TeamID:      in.TeamID,
		Season:      season,
		GamesPlayed: in.GP,
		Wins:        in.W,
		Losses:      in.L,
	}

	stats.PointsPerGame = nullFloat(in.PTS)
	stats.OppPointsPerGame = nullFloat(in.OppPTS)
	stats.FieldGoalPct = nullFloat(in.FGPct)
	stats.ThreePointPct = nullFloat(in.FG3Pct)
	stats.FreeThrowPct = nullFloat(in.FTPct)
	stats.AssistsPerGame = nullFloat(in.AST)
	stats.ReboundsPerGame = nullFloat(in.REB)
	stats.TurnoversPerGame = nullFloat(in.TOV)

	// Advanced; the API reports 0 for teams that have not played yet
	stats.OffensiveRating = nullPositive(in.OffRating)
	stats.DefensiveRating = nullPositive(in.DefRating)
	stats.Pace = nullPositive(in.Pace)

	return stats
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullPositive(v *float64) sql.NullFloat64 {
	if v == nil || *v <= 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
