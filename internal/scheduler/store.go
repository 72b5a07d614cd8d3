package scheduler

import (
	"context"
	"time"

	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/repository"
)

// DBStore adapts the pgx repositories to Store
type DBStore struct {
	DB *repository.Database
}

func (s DBStore) UpsertTeam(ctx context.Context, team *models.Team) error {
	return s.DB.Teams.Upsert(ctx, team)
}

func (s DBStore) UpsertStats(ctx context.Context, stats *models.TeamSeasonStats) error {
	return s.DB.Stats.Upsert(ctx, stats)
}

func (s DBStore) UpdateAggregates(ctx context.Context, stats *models.TeamSeasonStats) error {
	return s.DB.Stats.UpdateAggregates(ctx, stats)
}

func (s DBStore) ListSeasonStats(ctx context.Context, season string) ([]*models.TeamSeasonStats, error) {
	return s.DB.Stats.GetBySeason(ctx, season)
}

func (s DBStore) UpsertGame(ctx context.Context, game *models.Game) error {
	return s.DB.Games.Upsert(ctx, game)
}

func (s DBStore) ListSeasonGames(ctx context.Context, season string) ([]*models.Game, error) {
	return s.DB.Games.ListBySeason(ctx, season)
}

func (s DBStore) ListUnpredicted(ctx context.Context, from, to time.Time) ([]*models.Game, error) {
	return s.DB.Games.ListUnpredicted(ctx, from, to)
}

func (s DBStore) CreatePrediction(ctx context.Context, pred *models.Prediction) error {
	return s.DB.Predictions.CreatePrediction(ctx, pred)
}

func (s DBStore) Counts(ctx context.Context) (int, int, error) {
	teams, err := s.DB.Teams.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	games, err := s.DB.Games.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return teams, games, nil
}
