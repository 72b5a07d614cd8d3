package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nba_dashboard/backend/internal/analytics"
	"nba_dashboard/backend/internal/metrics"
	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"

	"github.com/rs/zerolog/log"
)

// Source is the upstream stats feed
type Source interface {
	FetchCombinedTeamStats(ctx context.Context, season string) ([]models.TeamStatsInput, error)
	FetchSeasonGames(ctx context.Context, season string) ([]models.GameInput, error)
	FetchScoreboard(ctx context.Context, t time.Time) ([]models.GameInput, error)
}

// Store is the write side of the repositories the syncer needs
type Store interface {
	UpsertTeam(ctx context.Context, team *models.Team) error
	UpsertStats(ctx context.Context, stats *models.TeamSeasonStats) error
	UpdateAggregates(ctx context.Context, stats *models.TeamSeasonStats) error
	ListSeasonStats(ctx context.Context, season string) ([]*models.TeamSeasonStats, error)
	UpsertGame(ctx context.Context, game *models.Game) error
	ListSeasonGames(ctx context.Context, season string) ([]*models.Game, error)
	ListUnpredicted(ctx context.Context, from, to time.Time) ([]*models.Game, error)
	CreatePrediction(ctx context.Context, pred *models.Prediction) error
	Counts(ctx context.Context) (teams, games int, err error)
}

// Predictor turns a scheduled game into a stored prediction
type Predictor interface {
	PredictGame(ctx context.Context, game *models.Game) (*models.Prediction, error)
}

// Syncer pulls stats.nba.com data into the database and predicts upcoming games
type Syncer struct {
	source    Source
	store     Store
	predictor Predictor
	location  *time.Location
}

// NewSyncer creates a Syncer. location decides which calendar day "today" is.
func NewSyncer(source Source, store Store, predictor Predictor, location *time.Location) *Syncer {
	if location == nil {
		location = time.UTC
	}
	return &Syncer{source: source, store: store, predictor: predictor, location: location}
}

// SyncTeams fetches Base and Advanced team stats and upserts teams and their season rows
func (s *Syncer) SyncTeams(ctx context.Context, season string) (int, error) {
	inputs, err := s.source.FetchCombinedTeamStats(ctx, season)
	if err != nil {
		return 0, err
	}

	saved := 0
	for i := range inputs {
		in := &inputs[i]

		team := (&models.TeamInput{TeamID: in.TeamID, TeamName: in.TeamName}).ToTeam()
		if err := s.store.UpsertTeam(ctx, team); err != nil {
			log.Error().Err(err).Int("team_id", in.TeamID).Msg("Failed to save team")
			continue
		}

		if err := s.store.UpsertStats(ctx, in.ToTeamSeasonStats(season)); err != nil {
			log.Error().Err(err).Int("team_id", in.TeamID).Msg("Failed to save team stats")
			continue
		}

		saved++
	}

	log.Info().Str("season", season).Int("count", saved).Msg("Teams saved to database")
	return saved, nil
}

// SyncGames stores the season's completed games from the league game log
func (s *Syncer) SyncGames(ctx context.Context, season string) (int, error) {
	inputs, err := s.source.FetchSeasonGames(ctx, season)
	if err != nil {
		return 0, err
	}

	saved := s.saveGames(ctx, inputs)
	log.Info().Str("season", season).Int("count", saved).Msg("Games saved to database")
	return saved, nil
}

// SyncScoreboard stores the scoreboard for the calendar day containing now
func (s *Syncer) SyncScoreboard(ctx context.Context, now time.Time) ([]*models.Game, error) {
	inputs, err := s.source.FetchScoreboard(ctx, now)
	if err != nil {
		return nil, err
	}

	games := make([]*models.Game, 0, len(inputs))
	active := 0
	for i := range inputs {
		game, err := inputs[i].ToGame()
		if err != nil {
			log.Warn().Err(err).Str("game_id", inputs[i].GameID).Msg("Skipping scoreboard game")
			continue
		}
		if err := s.store.UpsertGame(ctx, game); err != nil {
			// exhibition opponents are not in the teams table
			log.Error().Err(err).Str("game_id", game.GameID).Msg("Failed to save scoreboard game")
			continue
		}
		if game.IsActive() {
			active++
		}
		games = append(games, game)
	}

	metrics.SetActiveGames(active)
	log.Info().Int("games", len(games)).Int("active", active).Msg("Scoreboard synced")
	return games, nil
}

// RecomputeAggregates derives point totals, home/away splits, Pythagorean expectation
// and luck from the stored game log and writes them onto each team's season row
func (s *Syncer) RecomputeAggregates(ctx context.Context, season string) (int, error) {
	games, err := s.store.ListSeasonGames(ctx, season)
	if err != nil {
		return 0, err
	}

	all, err := s.store.ListSeasonStats(ctx, season)
	if err != nil {
		return 0, err
	}

	aggregates := analytics.CalculateTeamAggregates(games)

	updated := 0
	for _, stats := range all {
		agg, ok := aggregates[stats.TeamID]
		if !ok || agg.GamesPlayed() == 0 {
			continue
		}

		applyAggregates(stats, agg)
		if err := s.store.UpdateAggregates(ctx, stats); err != nil {
			log.Error().Err(err).Int("team_id", stats.TeamID).Msg("Failed to update aggregates")
			continue
		}
		updated++
	}

	log.Info().Str("season", season).Int("teams", updated).Msg("Aggregates recomputed")
	return updated, nil
}

func applyAggregates(stats *models.TeamSeasonStats, agg *analytics.TeamAggregates) {
	stats.TotalPointsScored = sql.NullFloat64{Float64: float64(agg.TotalPointsScored), Valid: true}
	stats.TotalPointsAllowed = sql.NullFloat64{Float64: float64(agg.TotalPointsAllowed), Valid: true}
	stats.HomeWins = agg.HomeWins
	stats.HomeLosses = agg.HomeLosses
	stats.AwayWins = agg.AwayWins
	stats.AwayLosses = agg.AwayLosses

	if agg.TotalPointsScored > 0 && agg.TotalPointsAllowed > 0 {
		stats.PythagoreanWinPct = sql.NullFloat64{Float64: agg.PythagoreanWinPct, Valid: true}
		stats.LuckFactor = sql.NullFloat64{Float64: agg.LuckFactor, Valid: true}
	}
}

// PredictUpcoming stores predictions for today's scheduled games that have none yet
func (s *Syncer) PredictUpcoming(ctx context.Context, now time.Time) (int, error) {
	today := models.CalendarDay(now, s.location)

	games, err := s.store.ListUnpredicted(ctx, today, today)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, game := range games {
		if !game.IsScheduled() {
			continue
		}

		pred, err := s.predictor.PredictGame(ctx, game)
		if errors.Is(err, prediction.ErrMissingRatings) {
			log.Warn().Str("game_id", game.GameID).Msg("Skipping prediction, ratings not available")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("game_id", game.GameID).Msg("Failed to predict game")
			continue
		}

		if err := s.store.CreatePrediction(ctx, pred); err != nil {
			log.Error().Err(err).Str("game_id", game.GameID).Msg("Failed to store prediction")
			continue
		}
		stored++
	}

	log.Info().Int("candidates", len(games)).Int("stored", stored).Msg("Upcoming games predicted")
	return stored, nil
}

// RunNightly refreshes teams, the game log, aggregates, today's scoreboard and
// predictions, in that order. A failed step is recorded and the rest still run,
// except that nothing downstream of a failed team sync is attempted.
func (s *Syncer) RunNightly(ctx context.Context, season string, now time.Time) error {
	var errs []error

	if err := s.step("teams", func() error {
		_, err := s.SyncTeams(ctx, season)
		return err
	}); err != nil {
		return fmt.Errorf("nightly refresh aborted: %w", err)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"games", func() error { _, err := s.SyncGames(ctx, season); return err }},
		{"aggregates", func() error { _, err := s.RecomputeAggregates(ctx, season); return err }},
		{"scoreboard", func() error { _, err := s.SyncScoreboard(ctx, now); return err }},
		{"predictions", func() error { _, err := s.PredictUpcoming(ctx, now); return err }},
	}
	for _, st := range steps {
		if err := s.step(st.name, st.run); err != nil {
			errs = append(errs, err)
		}
	}

	s.updateCounts(ctx)
	return errors.Join(errs...)
}

func (s *Syncer) step(name string, run func() error) error {
	start := time.Now()
	err := run()

	status := "success"
	if err != nil {
		status = "error"
		metrics.RecordError("sync", name)
		log.Error().Err(err).Str("step", name).Msg("Sync step failed")
		err = fmt.Errorf("%s: %w", name, err)
	}
	metrics.RecordSync(name, status, time.Since(start).Seconds())

	return err
}

func (s *Syncer) updateCounts(ctx context.Context) {
	teams, games, err := s.store.Counts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count ingested rows")
		return
	}
	metrics.UpdateIngestionStats(int64(teams), int64(games))
}

func (s *Syncer) saveGames(ctx context.Context, inputs []models.GameInput) int {
	saved := 0
	for i := range inputs {
		game, err := inputs[i].ToGame()
		if err != nil {
			log.Warn().Err(err).Str("game_id", inputs[i].GameID).Msg("Skipping game")
			continue
		}
		if err := s.store.UpsertGame(ctx, game); err != nil {
			log.Error().Err(err).Str("game_id", game.GameID).Msg("Failed to save game")
			continue
		}
		saved++
	}
	return saved
}
