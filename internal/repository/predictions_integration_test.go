//go:build integration

package repository

import (
	"testing"

	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionRepository_Lifecycle(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	seedSeason(t, ctx, db)

	game, err := db.Games.GetByGameID(ctx, "0022500004")
	require.NoError(t, err)

	in := models.PredictionInput{
		Game:         game,
		ModelVersion: "v1",
		Result: &prediction.PredictionResult{
			TeamAWinProbability: 58.2,
			TeamBWinProbability: 41.8,
			Confidence:          prediction.ConfidenceMedium,
			ConfidenceScore:     60,
			KeyInsights:         []string{"Large rating differential (11.2 points) favors BOS"},
		},
	}
	pred := in.ToPrediction()

	require.NoError(t, db.Predictions.CreatePrediction(ctx, pred))
	assert.NotZero(t, pred.ID)

	stored, err := db.Predictions.GetPredictionByGameID(ctx, "0022500004")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultModelName, stored.ModelName)
	assert.Equal(t, "v1", stored.ModelVersion.String)
	assert.Equal(t, 58.2, stored.HomeWinProbability)

	rationale, err := stored.DecodeRationale()
	require.NoError(t, err)
	assert.Equal(t, in.Result.KeyInsights, rationale.KeyInsights)

	// predicted games drop out of the unpredicted list
	unpredicted, err := db.Games.ListUnpredicted(ctx, game.GameDate, game.GameDate)
	require.NoError(t, err)
	assert.Empty(t, unpredicted)

	require.NoError(t, db.Predictions.DeletePredictionByGameID(ctx, "0022500004"))
	_, err = db.Predictions.GetPredictionByGameID(ctx, "0022500004")
	assert.ErrorIs(t, err, ErrNotFound)
}
