package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

const teamColumns = `id, team_id, abbreviation, name, city, created_at, updated_at`

func scanTeam(row scanner) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID, &team.TeamID, &team.Abbreviation, &team.Name, &team.City,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Upsert inserts or updates a team (for nightly refresh)
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (team_id, abbreviation, name, city)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id) DO UPDATE SET
			abbreviation = EXCLUDED.abbreviation,
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(
		ctx, query,
		team.TeamID, team.Abbreviation, team.Name, team.City,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	if err := observe("upsert", "teams", start, err); err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Int("team_id", team.TeamID).
		Str("abbreviation", team.Abbreviation).
		Msg("Team upserted")

	return nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	start := time.Now()
	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, id))
	if err := observe("select", "teams", start, err); err != nil {
		return nil, fmt.Errorf("failed to get team id=%d: %w", id, err)
	}

	return team, nil
}

// GetByTeamID retrieves a team by its stats.nba.com TEAM_ID
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_id = $1`

	start := time.Now()
	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, teamID))
	if err := observe("select", "teams", start, err); err != nil {
		return nil, fmt.Errorf("failed to get team team_id=%d: %w", teamID, err)
	}

	return team, nil
}

// GetByAbbreviation retrieves a team by abbreviation, case-insensitive
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE abbreviation = $1`

	abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation))

	start := time.Now()
	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, abbreviation))
	if err := observe("select", "teams", start, err); err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", abbreviation, err)
	}

	return team, nil
}

// List retrieves all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		_ = observe("select", "teams", start, err)
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := observe("select", "teams", start, rows.Err()); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM teams`

	var count int
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err := observe("count", "teams", start, err); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
