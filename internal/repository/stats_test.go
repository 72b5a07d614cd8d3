//go:build integration

package repository

import (
	"database/sql"
	"testing"

	"nba_dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestStatsRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedTeams(t, ctx, db)

	in := models.TeamStatsInput{
		TeamID: bostonID, TeamName: "Boston Celtics",
		GP: 20, W: 15, L: 5,
		PTS: f(117.5), FGPct: f(0.475),
		OffRating: f(119.8), DefRating: f(110.4), Pace: f(98.2),
	}
	stats := in.ToTeamSeasonStats("2025-26")

	err := db.Stats.Upsert(ctx, stats)
	require.NoError(t, err, "Should upsert season stats")

	retrieved, err := db.Stats.GetByTeamAndSeason(ctx, bostonID, "2025-26")
	require.NoError(t, err)
	assert.Equal(t, 20, retrieved.GamesPlayed)
	assert.Equal(t, 15, retrieved.Wins)
	assert.Equal(t, 117.5, retrieved.PointsPerGame.Float64)
	assert.Equal(t, 119.8, retrieved.OffensiveRating.Float64)
	assert.False(t, retrieved.OppPointsPerGame.Valid)

	// Later in the season
	stats.GamesPlayed = 21
	stats.Wins = 16
	require.NoError(t, db.Stats.Upsert(ctx, stats), "Should update season stats")

	updated, err := db.Stats.GetByTeamAndSeason(ctx, bostonID, "2025-26")
	require.NoError(t, err)
	assert.Equal(t, 21, updated.GamesPlayed)
	assert.Equal(t, 16, updated.Wins)
}

func TestStatsRepository_UpdateAggregates(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedTeams(t, ctx, db)

	stats := &models.TeamSeasonStats{TeamID: lakersID, Season: "2025-26", GamesPlayed: 2, Wins: 1, Losses: 1}
	require.NoError(t, db.Stats.Upsert(ctx, stats))

	stats.TotalPointsScored = sql.NullFloat64{Float64: 220, Valid: true}
	stats.TotalPointsAllowed = sql.NullFloat64{Float64: 215, Valid: true}
	stats.HomeWins = 1
	stats.AwayLosses = 1
	stats.PythagoreanWinPct = sql.NullFloat64{Float64: 0.58, Valid: true}
	stats.LuckFactor = sql.NullFloat64{Float64: -0.08, Valid: true}
	require.NoError(t, db.Stats.UpdateAggregates(ctx, stats))

	// a later box-score refresh keeps the aggregates
	stats.GamesPlayed = 3
	require.NoError(t, db.Stats.Upsert(ctx, stats))

	retrieved, err := db.Stats.GetByTeamAndSeason(ctx, lakersID, "2025-26")
	require.NoError(t, err)
	assert.Equal(t, 3, retrieved.GamesPlayed)
	assert.Equal(t, 220.0, retrieved.TotalPointsScored.Float64)
	assert.Equal(t, 1, retrieved.HomeWins)
	assert.Equal(t, 1, retrieved.AwayLosses)
	assert.True(t, retrieved.HasSplits())
	assert.InDelta(t, -0.08, retrieved.LuckFactor.Float64, 1e-9)
}

func TestStatsRepository_UpdateAggregatesMissingRow(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Stats.UpdateAggregates(ctx, &models.TeamSeasonStats{TeamID: miamiID, Season: "2025-26"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsRepository_GetBySeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedTeams(t, ctx, db)

	for _, id := range []int{bostonID, lakersID, miamiID} {
		require.NoError(t, db.Stats.Upsert(ctx, &models.TeamSeasonStats{TeamID: id, Season: "2025-26"}))
	}
	require.NoError(t, db.Stats.Upsert(ctx, &models.TeamSeasonStats{TeamID: bostonID, Season: "2024-25"}))

	all, err := db.Stats.GetBySeason(ctx, "2025-26")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, bostonID, all[0].TeamID)
}

func TestStatsRepository_StatsNotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Stats.GetByTeamAndSeason(ctx, 99999, "2025-26")
	assert.ErrorIs(t, err, ErrNotFound)
}
