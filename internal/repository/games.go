package repository

import (
	"context"
	"fmt"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `
	g.id, g.game_id, g.season, g.game_date, g.home_team_id, g.away_team_id,
	g.home_score, g.away_score, g.status, g.created_at, g.updated_at`

// finalClause matches both game-log "FINAL" and scoreboard "Final/OT"
const finalClause = `g.status ILIKE '%final%' AND g.home_score IS NOT NULL AND g.away_score IS NOT NULL`

func scanGame(row scanner) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.GameID, &game.Season, &game.GameDate, &game.HomeTeamID, &game.AwayTeamID,
		&game.HomeScore, &game.AwayScore, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Upsert inserts or updates a game. Known scores are never replaced by nulls,
// so a scoreboard refresh cannot erase a final score loaded from the game log.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			game_id, season, game_date, home_team_id, away_team_id,
			home_score, away_score, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (game_id) DO UPDATE SET
			season = EXCLUDED.season,
			game_date = EXCLUDED.game_date,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_score = COALESCE(EXCLUDED.home_score, games.home_score),
			away_score = COALESCE(EXCLUDED.away_score, games.away_score),
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameID, game.Season, game.GameDate, game.HomeTeamID, game.AwayTeamID,
		game.HomeScore, game.AwayScore, game.Status,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err := observe("upsert", "games", start, err); err != nil {
		return fmt.Errorf("failed to upsert game %s: %w", game.GameID, err)
	}

	log.Debug().
		Str("game_id", game.GameID).
		Int("home", game.HomeTeamID).
		Int("away", game.AwayTeamID).
		Str("status", game.Status).
		Msg("Game upserted")

	return nil
}

// GetByGameID retrieves a game by its stats.nba.com GAME_ID
func (r *GameRepository) GetByGameID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games g WHERE g.game_id = $1`

	start := time.Now()
	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, gameID))
	if err := observe("select", "games", start, err); err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
	}

	return game, nil
}

// ListBySeason retrieves every game of a season in date order
func (r *GameRepository) ListBySeason(ctx context.Context, season string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games g WHERE g.season = $1 ORDER BY g.game_date, g.game_id`
	return r.list(ctx, "list_season", query, season)
}

// ListHeadToHead retrieves meetings between two teams in a season, newest first
func (r *GameRepository) ListHeadToHead(ctx context.Context, team1ID, team2ID int, season string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games g
		WHERE g.season = $3
		  AND ((g.home_team_id = $1 AND g.away_team_id = $2)
		    OR (g.home_team_id = $2 AND g.away_team_id = $1))
		ORDER BY g.game_date DESC, g.game_id DESC`
	return r.list(ctx, "list_head_to_head", query, team1ID, team2ID, season)
}

// ListRecentFinal retrieves a team's completed games in a season, newest first.
// limit <= 0 returns all of them.
func (r *GameRepository) ListRecentFinal(ctx context.Context, teamID int, season string, limit int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games g
		WHERE g.season = $2
		  AND (g.home_team_id = $1 OR g.away_team_id = $1)
		  AND ` + finalClause + `
		ORDER BY g.game_date DESC, g.game_id DESC`

	args := []any{teamID, season}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	return r.list(ctx, "list_recent", query, args...)
}

// ListTeamSeason retrieves all of a team's games in a season in date order
func (r *GameRepository) ListTeamSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games g
		WHERE g.season = $2 AND (g.home_team_id = $1 OR g.away_team_id = $1)
		ORDER BY g.game_date, g.game_id`
	return r.list(ctx, "list_team_season", query, teamID, season)
}

// ListByDateRange retrieves games whose calendar date falls in [from, to]
func (r *GameRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games g
		WHERE g.game_date BETWEEN $1 AND $2
		ORDER BY g.game_date, g.game_id`
	return r.list(ctx, "list_date_range", query, from, to)
}

// ListUnpredicted retrieves unfinished games in [from, to] that have no stored prediction
func (r *GameRepository) ListUnpredicted(ctx context.Context, from, to time.Time) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games g
		LEFT JOIN predictions p ON g.game_id = p.game_id
		WHERE p.id IS NULL
		  AND g.game_date BETWEEN $1 AND $2
		  AND g.status NOT ILIKE '%final%'
		ORDER BY g.game_date, g.game_id`

	games, err := r.list(ctx, "list_unpredicted", query, from, to)
	if err != nil {
		return nil, err
	}

	log.Info().Int("count", len(games)).Msg("Unpredicted games retrieved")
	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err := observe("count", "games", start, err); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}

func (r *GameRepository) list(ctx context.Context, operation, query string, args ...any) ([]*models.Game, error) {
	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		_ = observe(operation, "games", start, err)
		return nil, fmt.Errorf("failed to %s games: %w", operation, err)
	}

	games, err := collectGames(rows)
	if err := observe(operation, "games", start, err); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

func collectGames(rows pgx.Rows) ([]*models.Game, error) {
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
