package api

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

func (s DBStore) Health(ctx context.Context) error {
	return s.DB.Health(ctx)
}

func (s DBStore) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.DB.Teams.List(ctx)
}

func (s DBStore) ListSeasonStats(ctx context.Context, season string) ([]*models.TeamSeasonStats, error) {
	return s.DB.Stats.GetBySeason(ctx, season)
}

func (s DBStore) ListHeadToHead(ctx context.Context, team1ID, team2ID int, season string) ([]*models.Game, error) {
	return s.DB.Games.ListHeadToHead(ctx, team1ID, team2ID, season)
}

func (s DBStore) ListRecentFinal(ctx context.Context, teamID int, season string, limit int) ([]*models.Game, error) {
	return s.DB.Games.ListRecentFinal(ctx, teamID, season, limit)
}

func (s DBStore) ListTeamSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error) {
	return s.DB.Games.ListTeamSeason(ctx, teamID, season)
}

func (s DBStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Game, error) {
	return s.DB.Games.ListByDateRange(ctx, from, to)
}
