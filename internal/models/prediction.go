package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"nba_dashboard/backend/internal/prediction"
)

// DefaultModelName identifies the composite engine in stored predictions
const DefaultModelName = "composite"

// Prediction is a stored snapshot of the engine output for a scheduled game.
// The home team is always team A.
type Prediction struct {
	ID     int    `db:"id"`
	GameID string `db:"game_id"`

	// Model info
	ModelName    string         `db:"model_name"`
	ModelVersion sql.NullString `db:"model_version"`

	HomeTeamID int `db:"home_team_id"`
	AwayTeamID int `db:"away_team_id"`

	// Probabilities in percent
	HomeWinProbability float64 `db:"home_win_probability"`
	AwayWinProbability float64 `db:"away_win_probability"`

	// Confidence
	Confidence      string  `db:"confidence"`
	ConfidenceScore float64 `db:"confidence_score"`

	// Rationale (JSONB)
	Rationale json.RawMessage `db:"rationale"`

	PredictedAt time.Time `db:"predicted_at"`
	CreatedAt   time.Time `db:"created_at"`
}

// PredictionRationale represents the JSONB structure for prediction reasoning
type PredictionRationale struct {
	KeyInsights    []string              `json:"key_insights"`
	Components     prediction.Components `json:"components"`
	HomeRating     float64               `json:"home_rating"`
	AwayRating     float64               `json:"away_rating"`
	HomeFormTrend  prediction.FormTrend  `json:"home_form_trend"`
	AwayFormTrend  prediction.FormTrend  `json:"away_form_trend"`
	HistoryContext string                `json:"history_context,omitempty"`
}

// PredictionInput pairs a game with the engine result computed for it
type PredictionInput struct {
	Game         *Game
	ModelName    string
	ModelVersion string
	Result       *prediction.PredictionResult
}

// ToPrediction converts PredictionInput to Prediction model
func (pi *PredictionInput) ToPrediction() *Prediction {
	pred := &Prediction{
		GameID:             pi.Game.GameID,
		ModelName:          pi.ModelName,
		HomeTeamID:         pi.Game.HomeTeamID,
		AwayTeamID:         pi.Game.AwayTeamID,
		HomeWinProbability: pi.Result.TeamAWinProbability,
		AwayWinProbability: pi.Result.TeamBWinProbability,
		Confidence:         string(pi.Result.Confidence),
		ConfidenceScore:    pi.Result.ConfidenceScore,
		PredictedAt:        time.Now(),
	}

	if pred.ModelName == "" {
		pred.ModelName = DefaultModelName
	}
	if pi.ModelVersion != "" {
		pred.ModelVersion = sql.NullString{String: pi.ModelVersion, Valid: true}
	}

	rationale := PredictionRationale{
		KeyInsights:    pi.Result.KeyInsights,
		Components:     pi.Result.Components,
		HomeRating:     pi.Result.TeamARating,
		AwayRating:     pi.Result.TeamBRating,
		HomeFormTrend:  pi.Result.FormTrendA,
		AwayFormTrend:  pi.Result.FormTrendB,
		HistoryContext: pi.Result.HistoryContext,
	}
	if jsonData, err := json.Marshal(rationale); err == nil {
		pred.Rationale = jsonData
	}

	return pred
}

// DecodeRationale unmarshals the stored rationale
func (p *Prediction) DecodeRationale() (*PredictionRationale, error) {
	if len(p.Rationale) == 0 {
		return &PredictionRationale{}, nil
	}

	var r PredictionRationale
	if err := json.Unmarshal(p.Rationale, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
