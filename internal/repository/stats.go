package repository

import (
	"context"
	"fmt"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// StatsRepository handles team season stats database operations
type StatsRepository struct {
	db *Database
}

const statsColumns = `
	id, team_id, season, games_played, wins, losses,
	points_per_game, opp_points_per_game, field_goal_pct, three_point_pct, free_throw_pct,
	assists_per_game, rebounds_per_game, turnovers_per_game,
	offensive_rating, defensive_rating, pace,
	total_points_scored, total_points_allowed,
	home_wins, home_losses, away_wins, away_losses,
	pythagorean_win_pct, luck_factor,
	created_at, updated_at`

func scanStats(row scanner) (*models.TeamSeasonStats, error) {
	var s models.TeamSeasonStats
	err := row.Scan(
		&s.ID, &s.TeamID, &s.Season, &s.GamesPlayed, &s.Wins, &s.Losses,
		&s.PointsPerGame, &s.OppPointsPerGame, &s.FieldGoalPct, &s.ThreePointPct, &s.FreeThrowPct,
		&s.AssistsPerGame, &s.ReboundsPerGame, &s.TurnoversPerGame,
		&s.OffensiveRating, &s.DefensiveRating, &s.Pace,
		&s.TotalPointsScored, &s.TotalPointsAllowed,
		&s.HomeWins, &s.HomeLosses, &s.AwayWins, &s.AwayLosses,
		&s.PythagoreanWinPct, &s.LuckFactor,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert inserts or updates the box score and rating columns of a team's season.
// Aggregate columns are owned by UpdateAggregates and left untouched on conflict.
func (r *StatsRepository) Upsert(ctx context.Context, stats *models.TeamSeasonStats) error {
	query := `
		INSERT INTO team_season_stats (
			team_id, season, games_played, wins, losses,
			points_per_game, opp_points_per_game, field_goal_pct, three_point_pct, free_throw_pct,
			assists_per_game, rebounds_per_game, turnovers_per_game,
			offensive_rating, defensive_rating, pace
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (team_id, season) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			points_per_game = EXCLUDED.points_per_game,
			opp_points_per_game = EXCLUDED.opp_points_per_game,
			field_goal_pct = EXCLUDED.field_goal_pct,
			three_point_pct = EXCLUDED.three_point_pct,
			free_throw_pct = EXCLUDED.free_throw_pct,
			assists_per_game = EXCLUDED.assists_per_game,
			rebounds_per_game = EXCLUDED.rebounds_per_game,
			turnovers_per_game = EXCLUDED.turnovers_per_game,
			offensive_rating = EXCLUDED.offensive_rating,
			defensive_rating = EXCLUDED.defensive_rating,
			pace = EXCLUDED.pace,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(
		ctx, query,
		stats.TeamID, stats.Season, stats.GamesPlayed, stats.Wins, stats.Losses,
		stats.PointsPerGame, stats.OppPointsPerGame, stats.FieldGoalPct, stats.ThreePointPct, stats.FreeThrowPct,
		stats.AssistsPerGame, stats.ReboundsPerGame, stats.TurnoversPerGame,
		stats.OffensiveRating, stats.DefensiveRating, stats.Pace,
	).Scan(&stats.ID, &stats.CreatedAt, &stats.UpdatedAt)

	if err := observe("upsert", "team_season_stats", start, err); err != nil {
		return fmt.Errorf("failed to upsert team season stats: %w", err)
	}

	log.Debug().
		Int("team_id", stats.TeamID).
		Str("season", stats.Season).
		Msg("Team season stats upserted")

	return nil
}

// UpdateAggregates writes the game-log aggregates onto an existing season row
func (r *StatsRepository) UpdateAggregates(ctx context.Context, stats *models.TeamSeasonStats) error {
	query := `
		UPDATE team_season_stats SET
			total_points_scored = $3,
			total_points_allowed = $4,
			home_wins = $5,
			home_losses = $6,
			away_wins = $7,
			away_losses = $8,
			pythagorean_win_pct = $9,
			luck_factor = $10,
			updated_at = NOW()
		WHERE team_id = $1 AND season = $2
	`

	start := time.Now()
	result, err := r.db.Pool.Exec(
		ctx, query,
		stats.TeamID, stats.Season,
		stats.TotalPointsScored, stats.TotalPointsAllowed,
		stats.HomeWins, stats.HomeLosses, stats.AwayWins, stats.AwayLosses,
		stats.PythagoreanWinPct, stats.LuckFactor,
	)
	if err := observe("update", "team_season_stats", start, err); err != nil {
		return fmt.Errorf("failed to update aggregates: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no season stats for team_id=%d season=%s: %w", stats.TeamID, stats.Season, ErrNotFound)
	}

	return nil
}

// GetByTeamAndSeason retrieves stats for a specific team and season
func (r *StatsRepository) GetByTeamAndSeason(ctx context.Context, teamID int, season string) (*models.TeamSeasonStats, error) {
	query := `SELECT ` + statsColumns + ` FROM team_season_stats WHERE team_id = $1 AND season = $2`

	start := time.Now()
	stats, err := scanStats(r.db.Pool.QueryRow(ctx, query, teamID, season))
	if err := observe("select", "team_season_stats", start, err); err != nil {
		return nil, fmt.Errorf("failed to get stats for team_id=%d season=%s: %w", teamID, season, err)
	}

	return stats, nil
}

// GetBySeason retrieves stats for every team in a season
func (r *StatsRepository) GetBySeason(ctx context.Context, season string) ([]*models.TeamSeasonStats, error) {
	query := `SELECT ` + statsColumns + ` FROM team_season_stats WHERE season = $1 ORDER BY team_id`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		_ = observe("select", "team_season_stats", start, err)
		return nil, fmt.Errorf("failed to get stats by season: %w", err)
	}
	defer rows.Close()

	var all []*models.TeamSeasonStats
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team season stats: %w", err)
		}
		all = append(all, stats)
	}

	if err := observe("select", "team_season_stats", start, rows.Err()); err != nil {
		return nil, fmt.Errorf("error iterating team season stats: %w", err)
	}

	return all, nil
}
