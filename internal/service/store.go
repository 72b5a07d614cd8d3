package service

import (
	"context"

	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/repository"
)

// RepositoryStore adapts the pgx repositories to Store
type RepositoryStore struct {
	DB *repository.Database
}

// NewRepositoryStore wraps db
func NewRepositoryStore(db *repository.Database) *RepositoryStore {
	return &RepositoryStore{DB: db}
}

func (s *RepositoryStore) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	return s.DB.Teams.GetByTeamID(ctx, teamID)
}

func (s *RepositoryStore) GetSeasonStats(ctx context.Context, teamID int, season string) (*models.TeamSeasonStats, error) {
	return s.DB.Stats.GetByTeamAndSeason(ctx, teamID, season)
}

func (s *RepositoryStore) ListRecentFinal(ctx context.Context, teamID int, season string, limit int) ([]*models.Game, error) {
	return s.DB.Games.ListRecentFinal(ctx, teamID, season, limit)
}

func (s *RepositoryStore) ListHeadToHead(ctx context.Context, team1ID, team2ID int, season string) ([]*models.Game, error) {
	return s.DB.Games.ListHeadToHead(ctx, team1ID, team2ID, season)
}
