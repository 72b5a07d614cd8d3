//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v int) *int { return &v }

func upsertGame(t *testing.T, ctx context.Context, db *Database, in models.GameInput) *models.Game {
	game, err := in.ToGame()
	require.NoError(t, err)
	require.NoError(t, db.Games.Upsert(ctx, game))
	return game
}

// seedSeason stores three finals and one scheduled game
func seedSeason(t *testing.T, ctx context.Context, db *Database) {
	seedTeams(t, ctx, db)

	upsertGame(t, ctx, db, models.GameInput{GameID: "0022500001", Season: "2025-26", GameDate: "2025-10-22",
		HomeTeamID: bostonID, AwayTeamID: lakersID, HomeScore: score(110), AwayScore: score(100), Status: models.StatusFinal})
	upsertGame(t, ctx, db, models.GameInput{GameID: "0022500002", Season: "2025-26", GameDate: "2025-11-05",
		HomeTeamID: lakersID, AwayTeamID: bostonID, HomeScore: score(105), AwayScore: score(99), Status: models.StatusFinal})
	upsertGame(t, ctx, db, models.GameInput{GameID: "0022500003", Season: "2025-26", GameDate: "2025-11-07",
		HomeTeamID: miamiID, AwayTeamID: bostonID, HomeScore: score(98), AwayScore: score(101), Status: models.StatusFinal})
	upsertGame(t, ctx, db, models.GameInput{GameID: "0022500004", Season: "2025-26", GameDate: "2025-11-20",
		HomeTeamID: bostonID, AwayTeamID: lakersID, Status: "7:30 pm ET"})
}

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedTeams(t, ctx, db)

	game := upsertGame(t, ctx, db, models.GameInput{GameID: "0022500100", Season: "2025-26", GameDate: "2025-11-20",
		HomeTeamID: bostonID, AwayTeamID: lakersID, Status: "7:30 pm ET"})

	retrieved, err := db.Games.GetByGameID(ctx, "0022500100")
	require.NoError(t, err, "Should retrieve game")
	assert.Equal(t, game.ID, retrieved.ID)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), retrieved.GameDate.UTC())
	assert.True(t, retrieved.IsScheduled())
	assert.False(t, retrieved.HasScores())

	// Final score from the game log
	upsertGame(t, ctx, db, models.GameInput{GameID: "0022500100", Season: "2025-26", GameDate: "2025-11-20",
		HomeTeamID: bostonID, AwayTeamID: lakersID, HomeScore: score(112), AwayScore: score(101), Status: models.StatusFinal})

	// A later scoreboard refresh without scores must not erase them
	upsertGame(t, ctx, db, models.GameInput{GameID: "0022500100", Season: "2025-26", GameDate: "2025-11-20",
		HomeTeamID: bostonID, AwayTeamID: lakersID, Status: "Final"})

	updated, err := db.Games.GetByGameID(ctx, "0022500100")
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Status)
	assert.Equal(t, int32(112), updated.HomeScore.Int32)
	assert.Equal(t, int32(101), updated.AwayScore.Int32)

	count, err := db.Games.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGameRepository_ListHeadToHead(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedSeason(t, ctx, db)

	games, err := db.Games.ListHeadToHead(ctx, lakersID, bostonID, "2025-26")
	require.NoError(t, err)
	require.Len(t, games, 3)

	// newest first, scheduled meeting included
	assert.Equal(t, "0022500004", games[0].GameID)
	assert.Equal(t, "0022500002", games[1].GameID)
	assert.Equal(t, "0022500001", games[2].GameID)
}

func TestGameRepository_ListRecentFinal(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedSeason(t, ctx, db)

	games, err := db.Games.ListRecentFinal(ctx, bostonID, "2025-26", 2)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "0022500003", games[0].GameID)
	assert.Equal(t, "0022500002", games[1].GameID)

	all, err := db.Games.ListRecentFinal(ctx, bostonID, "2025-26", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGameRepository_ListTeamSeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedSeason(t, ctx, db)

	games, err := db.Games.ListTeamSeason(ctx, bostonID, "2025-26")
	require.NoError(t, err)
	require.Len(t, games, 4)
	assert.Equal(t, "0022500001", games[0].GameID)
	assert.Equal(t, "0022500004", games[3].GameID)

	season, err := db.Games.ListBySeason(ctx, "2025-26")
	require.NoError(t, err)
	assert.Len(t, season, 4)
}

func TestGameRepository_ListUnpredicted(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedSeason(t, ctx, db)

	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	inRange, err := db.Games.ListByDateRange(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, inRange, 3)

	games, err := db.Games.ListUnpredicted(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, games, 1, "finals are never unpredicted")
	assert.Equal(t, "0022500004", games[0].GameID)
}

func TestGameRepository_NotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Games.GetByGameID(ctx, "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
