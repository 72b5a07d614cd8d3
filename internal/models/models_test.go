package models

import (
	"database/sql"
	"testing"
	"time"

	"nba_dashboard/backend/internal/prediction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeason(t *testing.T) {
	for _, season := range []string{"2025-26", "2024-25", "1999-00"} {
		assert.NoError(t, ValidateSeason(season), season)
	}

	for _, season := range []string{"", "2025", "2025-2026", "25-26", "2025-27", "2025/26", "abcd-ef"} {
		err := ValidateSeason(season)
		assert.ErrorIs(t, err, ErrInvalidSeason, season)
	}
}

func TestCalendarDay(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC is still the previous evening in New York
	got := CalendarDay(time.Date(2025, 11, 21, 2, 30, 0, 0, time.UTC), eastern)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), got)

	got = CalendarDay(time.Date(2025, 11, 21, 12, 0, 0, 0, time.UTC), eastern)
	assert.Equal(t, time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC), got)
}

func TestSeasonForDate(t *testing.T) {
	assert.Equal(t, "2025-26", SeasonForDate(time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-26", SeasonForDate(time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-25", SeasonForDate(time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1999-00", SeasonForDate(time.Date(2000, time.January, 5, 0, 0, 0, 0, time.UTC)))
}

func TestTeamInput_ToTeam(t *testing.T) {
	team := (&TeamInput{TeamID: 1610612757, TeamName: "Portland Trail Blazers"}).ToTeam()
	assert.Equal(t, "POR", team.Abbreviation)
	assert.Equal(t, "Portland", team.City.String)

	team = (&TeamInput{TeamID: 1610612738, TeamName: "Boston Celtics"}).ToTeam()
	assert.Equal(t, "BOS", team.Abbreviation)
	assert.Equal(t, "Boston", team.City.String)

	unknown := (&TeamInput{TeamID: 42, TeamName: "Nobody"}).ToTeam()
	assert.Equal(t, UnknownAbbreviation, unknown.Abbreviation)
	assert.False(t, unknown.City.Valid)
}

func TestTeamIDForAbbreviation(t *testing.T) {
	id, ok := TeamIDForAbbreviation(" den ")
	assert.True(t, ok)
	assert.Equal(t, 1610612743, id)

	_, ok = TeamIDForAbbreviation("XYZ")
	assert.False(t, ok)
}

func TestTeamStatsInput_MergeAndConvert(t *testing.T) {
	pts, opp, fg := 118.2, 111.4, 0.487
	base := &TeamStatsInput{TeamID: 1610612738, TeamName: "Boston Celtics", GP: 20, W: 15, L: 5, PTS: &pts, FGPct: &fg}

	off, def, pace, zero := 121.3, 110.1, 98.7, 0.0
	base.Merge(&TeamStatsInput{TeamID: 1610612738, OffRating: &off, DefRating: &def, Pace: &pace, OppPTS: &opp})
	base.Merge(nil)

	stats := base.ToTeamSeasonStats("2025-26")
	assert.Equal(t, "2025-26", stats.Season)
	assert.Equal(t, 20, stats.GamesPlayed)
	assert.Equal(t, sql.NullFloat64{Float64: 118.2, Valid: true}, stats.PointsPerGame)
	assert.Equal(t, sql.NullFloat64{Float64: 111.4, Valid: true}, stats.OppPointsPerGame)
	assert.Equal(t, 121.3, stats.OffensiveRating.Float64)
	assert.Equal(t, 98.7, stats.Pace.Float64)
	assert.False(t, stats.AssistsPerGame.Valid)

	// Zero ratings before opening night are treated as missing
	empty := (&TeamStatsInput{TeamID: 1, OffRating: &zero}).ToTeamSeasonStats("2025-26")
	assert.False(t, empty.OffensiveRating.Valid)
}

func TestTeamSeasonStats_ToEngine(t *testing.T) {
	team := &Team{TeamID: 1610612743, Abbreviation: "DEN", Name: "Denver Nuggets"}
	stats := &TeamSeasonStats{
		GamesPlayed:      10,
		Wins:             7,
		Losses:           3,
		PointsPerGame:    sql.NullFloat64{Float64: 115, Valid: true},
		OppPointsPerGame: sql.NullFloat64{Float64: 108.5, Valid: true},
		OffensiveRating:  sql.NullFloat64{Float64: 118, Valid: true},
		DefensiveRating:  sql.NullFloat64{Float64: 111, Valid: true},
	}

	engine := stats.ToEngine(team)
	assert.Equal(t, 1610612743, engine.TeamID)
	assert.Equal(t, "DEN", engine.Label())
	require.True(t, engine.HasRatings())
	assert.Equal(t, 118.0, *engine.OffensiveRating)
	assert.Nil(t, engine.Pace)
	assert.Equal(t, 1150.0, engine.TotalPointsScored)
	assert.Equal(t, 1085.0, engine.TotalPointsAllowed)
	assert.Nil(t, engine.HomeRecord)

	// Aggregates win over per-game averages once computed
	stats.TotalPointsScored = sql.NullFloat64{Float64: 1152, Valid: true}
	stats.HomeWins, stats.HomeLosses, stats.AwayWins, stats.AwayLosses = 4, 1, 3, 2
	engine = stats.ToEngine(team)
	assert.Equal(t, 1152.0, engine.TotalPointsScored)
	assert.Equal(t, &prediction.HomeAwayRecord{Wins: 4, Losses: 1}, engine.HomeRecord)
	assert.Equal(t, &prediction.HomeAwayRecord{Wins: 3, Losses: 2}, engine.AwayRecord)

	stats.OffensiveRating = sql.NullFloat64{}
	assert.False(t, stats.ToEngine(team).HasRatings())
}

func TestGameInput_ToGame(t *testing.T) {
	home, away := 112, 104
	game, err := (&GameInput{
		GameID:     "0022500123",
		Season:     "2025-26",
		GameDate:   "2025-11-14",
		HomeTeamID: 1610612738,
		AwayTeamID: 1610612747,
		HomeScore:  &home,
		AwayScore:  &away,
		Status:     " Final ",
	}).ToGame()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC), game.GameDate)
	assert.Equal(t, "Final", game.Status)
	assert.True(t, game.IsFinal())
	assert.True(t, game.HasScores())

	teamScore, oppScore := game.ScoresFor(1610612747)
	assert.Equal(t, 104, *teamScore)
	assert.Equal(t, 112, *oppScore)

	h2h := game.ToHeadToHead()
	assert.Equal(t, "2025-11-14", h2h.GameDate)
	assert.True(t, h2h.Completed())

	_, err = (&GameInput{GameID: "x", GameDate: "Nov 14"}).ToGame()
	assert.Error(t, err)
}

func TestGame_Status(t *testing.T) {
	tests := []struct {
		status    string
		final     bool
		scheduled bool
		active    bool
	}{
		{"FINAL", true, false, false},
		{"Final/OT", true, false, false},
		{"7:30 pm ET", false, true, false},
		{"12:00 AM ET", false, true, false},
		{"Q3 5:12", false, false, true},
		{"Halftime", false, false, true},
		{"", false, false, false},
	}

	for _, tt := range tests {
		g := &Game{Status: tt.status}
		assert.Equal(t, tt.final, g.IsFinal(), tt.status)
		assert.Equal(t, tt.scheduled, g.IsScheduled(), tt.status)
		assert.Equal(t, tt.active, g.IsActive(), tt.status)
	}
}

func TestPredictionInput_ToPrediction(t *testing.T) {
	game := &Game{GameID: "0022500200", HomeTeamID: 1, AwayTeamID: 2}
	result := &prediction.PredictionResult{
		TeamAWinProbability: 61.2,
		TeamBWinProbability: 38.8,
		Confidence:          prediction.ConfidenceMedium,
		ConfidenceScore:     65,
		KeyInsights:         []string{"DEN gets 1.5% altitude advantage"},
		Components:          prediction.Components{Base: 58, HomeAdvantage: 1.7},
	}

	pred := (&PredictionInput{Game: game, ModelVersion: "v1", Result: result}).ToPrediction()

	assert.Equal(t, "0022500200", pred.GameID)
	assert.Equal(t, DefaultModelName, pred.ModelName)
	assert.Equal(t, "v1", pred.ModelVersion.String)
	assert.Equal(t, 61.2, pred.HomeWinProbability)
	assert.Equal(t, "medium", pred.Confidence)
	assert.False(t, pred.PredictedAt.IsZero())

	rationale, err := pred.DecodeRationale()
	require.NoError(t, err)
	assert.Equal(t, result.KeyInsights, rationale.KeyInsights)
	assert.Equal(t, 1.7, rationale.Components.HomeAdvantage)
}
