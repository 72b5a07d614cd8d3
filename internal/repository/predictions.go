package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"

	"github.com/rs/zerolog/log"
)

// PredictionRepository handles prediction-related database operations
type PredictionRepository struct {
	db *Database
}

// CreatePrediction inserts a new prediction with validation
func (r *PredictionRepository) CreatePrediction(ctx context.Context, pred *models.Prediction) error {
	if pred == nil {
		return fmt.Errorf("prediction cannot be nil")
	}

	if err := validatePredictionData(pred); err != nil {
		return fmt.Errorf("prediction validation failed: %w", err)
	}

	query := `
		INSERT INTO predictions (
			game_id, model_name, model_version,
			home_team_id, away_team_id,
			home_win_probability, away_win_probability,
			confidence, confidence_score,
			rationale, predicted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		pred.GameID, pred.ModelName, pred.ModelVersion,
		pred.HomeTeamID, pred.AwayTeamID,
		pred.HomeWinProbability, pred.AwayWinProbability,
		pred.Confidence, pred.ConfidenceScore,
		pred.Rationale, pred.PredictedAt,
	).Scan(&pred.ID, &pred.CreatedAt)

	if err := observe("insert", "predictions", start, err); err != nil {
		log.Error().Err(err).Str("game_id", pred.GameID).Msg("Failed to insert prediction")
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	log.Info().Int("id", pred.ID).Str("game_id", pred.GameID).Msg("Prediction created successfully")
	return nil
}

// GetPredictionByGameID retrieves the most recent prediction for a game
func (r *PredictionRepository) GetPredictionByGameID(ctx context.Context, gameID string) (*models.Prediction, error) {
	query := `
		SELECT id, game_id, model_name, model_version,
		       home_team_id, away_team_id,
		       home_win_probability, away_win_probability,
		       confidence, confidence_score,
		       rationale, predicted_at, created_at
		FROM predictions
		WHERE game_id = $1
		ORDER BY predicted_at DESC
		LIMIT 1
	`

	pred := &models.Prediction{}
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query, gameID).Scan(
		&pred.ID, &pred.GameID, &pred.ModelName, &pred.ModelVersion,
		&pred.HomeTeamID, &pred.AwayTeamID,
		&pred.HomeWinProbability, &pred.AwayWinProbability,
		&pred.Confidence, &pred.ConfidenceScore,
		&pred.Rationale, &pred.PredictedAt, &pred.CreatedAt,
	)

	if err := observe("select", "predictions", start, err); err != nil {
		return nil, fmt.Errorf("failed to get prediction for game %s: %w", gameID, err)
	}

	return pred, nil
}

// DeletePredictionByGameID deletes predictions for a game (for retry/correction)
func (r *PredictionRepository) DeletePredictionByGameID(ctx context.Context, gameID string) error {
	query := `DELETE FROM predictions WHERE game_id = $1`

	start := time.Now()
	result, err := r.db.Pool.Exec(ctx, query, gameID)
	if err := observe("delete", "predictions", start, err); err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}

	log.Warn().Int64("rows_affected", result.RowsAffected()).Str("game_id", gameID).Msg("Prediction deleted")
	return nil
}

// validatePredictionData ensures prediction data is valid before insertion
func validatePredictionData(pred *models.Prediction) error {
	if pred.GameID == "" {
		return errors.New("game_id is required")
	}
	if pred.ModelName == "" {
		return errors.New("model_name is required")
	}
	if pred.HomeTeamID == pred.AwayTeamID {
		return errors.New("home and away teams must differ")
	}
	for name, p := range map[string]float64{
		"home_win_probability": pred.HomeWinProbability,
		"away_win_probability": pred.AwayWinProbability,
	} {
		if p < 0 || p > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %.2f", name, p)
		}
	}
	if sum := pred.HomeWinProbability + pred.AwayWinProbability; sum < 99.9 || sum > 100.1 {
		return fmt.Errorf("win probabilities must sum to 100, got %.2f", sum)
	}
	switch prediction.Confidence(pred.Confidence) {
	case prediction.ConfidenceHigh, prediction.ConfidenceMedium, prediction.ConfidenceLow:
	default:
		return fmt.Errorf("unknown confidence %q", pred.Confidence)
	}
	if pred.ConfidenceScore < 0 || pred.ConfidenceScore > 100 {
		return errors.New("confidence_score must be between 0 and 100")
	}
	if pred.PredictedAt.IsZero() {
		return errors.New("predicted_at is required")
	}
	return nil
}
