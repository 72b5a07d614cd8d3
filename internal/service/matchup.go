// Package service loads what the prediction engine needs from storage and runs it.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nba_dashboard/backend/internal/analytics"
	"nba_dashboard/backend/internal/cache"
	"nba_dashboard/backend/internal/metrics"
	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"

	"github.com/rs/zerolog/log"
)

// ErrInvalidRequest marks caller mistakes such as a missing or repeated team
var ErrInvalidRequest = errors.New("invalid matchup request")

// ModelVersion is stored with every persisted prediction
const ModelVersion = "v1"

// Store is the read side of the repositories the service needs
type Store interface {
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
	GetSeasonStats(ctx context.Context, teamID int, season string) (*models.TeamSeasonStats, error)
	ListRecentFinal(ctx context.Context, teamID int, season string, limit int) ([]*models.Game, error)
	ListHeadToHead(ctx context.Context, team1ID, team2ID int, season string) ([]*models.Game, error)
}

// Cache stores computed responses. *cache.RedisCache satisfies it, including a nil one.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Options configures a MatchupService
type Options struct {
	DefaultSeason    string
	RecentFormWindow int
	CacheTTL         time.Duration
}

// MatchupRequest identifies two teams by stats.nba.com TEAM_ID.
// IsTeamAHome defaults to true when omitted.
type MatchupRequest struct {
	TeamAID       int    `json:"teamAId"`
	TeamBID       int    `json:"teamBId"`
	IsTeamAHome   *bool  `json:"isTeamAHome,omitempty"`
	NeutralSite   bool   `json:"neutralSite,omitempty"`
	Season        string `json:"season,omitempty"`
	UseRecentForm bool   `json:"useRecentForm,omitempty"`
	UseHeadToHead bool   `json:"useHeadToHead,omitempty"`
}

// TeamSummary is the team block returned alongside a prediction
type TeamSummary struct {
	ID                int      `json:"id"`
	TeamID            int      `json:"teamId"`
	Name              string   `json:"name"`
	Abbreviation      string   `json:"abbreviation"`
	Record            string   `json:"record"`
	HomeRecord        string   `json:"homeRecord"`
	AwayRecord        string   `json:"awayRecord"`
	OffensiveRating   *float64 `json:"offensiveRating"`
	DefensiveRating   *float64 `json:"defensiveRating"`
	PythagoreanWinPct *float64 `json:"pythagoreanWinPct"`
	LuckFactor        *float64 `json:"luckFactor"`
}

// MatchupResponse is the full matchup page payload
type MatchupResponse struct {
	TeamA       TeamSummary                  `json:"teamA"`
	TeamB       TeamSummary                  `json:"teamB"`
	Prediction  *prediction.PredictionResult `json:"prediction"`
	Analysis    *prediction.MatchupAnalysis  `json:"analysis,omitempty"`
	IsTeamAHome bool                         `json:"isTeamAHome"`
	NeutralSite bool                         `json:"neutralSite"`
	Season      string                       `json:"season"`
}

// MatchupService runs predictions against stored season data
type MatchupService struct {
	store Store
	cache Cache
	opts  Options
}

// NewMatchupService creates a MatchupService. cache may be nil.
func NewMatchupService(store Store, c Cache, opts Options) *MatchupService {
	if c == nil {
		c = (*cache.RedisCache)(nil)
	}
	return &MatchupService{store: store, cache: c, opts: opts}
}

// Predict returns the prediction for a requested matchup, from cache when possible
func (s *MatchupService) Predict(ctx context.Context, req MatchupRequest) (*MatchupResponse, error) {
	if req.TeamAID <= 0 || req.TeamBID <= 0 {
		return nil, fmt.Errorf("%w: both team IDs are required", ErrInvalidRequest)
	}
	if req.TeamAID == req.TeamBID {
		return nil, fmt.Errorf("%w: a team cannot play itself", ErrInvalidRequest)
	}

	season := req.Season
	if season == "" {
		season = s.opts.DefaultSeason
	}
	if err := models.ValidateSeason(season); err != nil {
		return nil, err
	}

	isTeamAHome := true
	if req.IsTeamAHome != nil {
		isTeamAHome = *req.IsTeamAHome
	}

	key := cache.PredictionKey(season, req.TeamAID, req.TeamBID, isTeamAHome, req.NeutralSite,
		req.UseRecentForm, req.UseHeadToHead)

	var cached MatchupResponse
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Prediction cache read failed")
	}
	if found {
		return &cached, nil
	}

	start := time.Now()
	resp, err := s.compute(ctx, matchup{
		teamAID:     req.TeamAID,
		teamBID:     req.TeamBID,
		season:      season,
		isTeamAHome: isTeamAHome,
		neutralSite: req.NeutralSite,
		withForm:    req.UseRecentForm,
		withHistory: req.UseHeadToHead,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPrediction("matchup", string(resp.Prediction.Confidence), time.Since(start).Seconds())

	if err := s.cache.SetJSON(ctx, key, resp, s.opts.CacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Prediction cache write failed")
	}

	log.Info().
		Str("season", season).
		Str("team_a", resp.TeamA.Abbreviation).
		Str("team_b", resp.TeamB.Abbreviation).
		Float64("team_a_win_pct", resp.Prediction.TeamAWinProbability).
		Str("confidence", string(resp.Prediction.Confidence)).
		Dur("duration", time.Since(start)).
		Msg("Matchup predicted")

	return resp, nil
}

// PredictGame predicts a scheduled game with the home team as team A, using recent
// form and the season series. The result is not cached.
func (s *MatchupService) PredictGame(ctx context.Context, game *models.Game) (*models.Prediction, error) {
	if game == nil {
		return nil, fmt.Errorf("%w: game is required", ErrInvalidRequest)
	}

	start := time.Now()
	resp, err := s.compute(ctx, matchup{
		teamAID:     game.HomeTeamID,
		teamBID:     game.AwayTeamID,
		season:      game.Season,
		isTeamAHome: true,
		withForm:    true,
		withHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to predict game %s: %w", game.GameID, err)
	}

	metrics.RecordPrediction("scheduled", string(resp.Prediction.Confidence), time.Since(start).Seconds())

	in := models.PredictionInput{
		Game:         game,
		ModelName:    models.DefaultModelName,
		ModelVersion: ModelVersion,
		Result:       resp.Prediction,
	}
	return in.ToPrediction(), nil
}

type matchup struct {
	teamAID, teamBID int
	season           string
	isTeamAHome      bool
	neutralSite      bool
	withForm         bool
	withHistory      bool
}

type loadedTeam struct {
	team   *models.Team
	stats  *models.TeamSeasonStats
	engine prediction.TeamSeasonStats
}

func (s *MatchupService) load(ctx context.Context, teamID int, season string) (*loadedTeam, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	stats, err := s.store.GetSeasonStats(ctx, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s stats for %s: %w", season, team.Abbreviation, err)
	}

	return &loadedTeam{team: team, stats: stats, engine: stats.ToEngine(team)}, nil
}

func (s *MatchupService) compute(ctx context.Context, m matchup) (*MatchupResponse, error) {
	a, err := s.load(ctx, m.teamAID, m.season)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, m.teamBID, m.season)
	if err != nil {
		return nil, err
	}

	if !a.engine.HasRatings() || !b.engine.HasRatings() {
		return nil, prediction.ErrMissingRatings
	}

	in := prediction.MatchupInput{
		TeamA:       a.engine,
		TeamB:       b.engine,
		IsTeamAHome: m.isTeamAHome,
		NeutralSite: m.neutralSite,
	}

	if m.withForm && s.opts.RecentFormWindow > 0 {
		if in.RecentFormA, err = s.recentForm(ctx, m.teamAID, m.season); err != nil {
			return nil, err
		}
		if in.RecentFormB, err = s.recentForm(ctx, m.teamBID, m.season); err != nil {
			return nil, err
		}
	}

	if m.withHistory {
		games, err := s.store.ListHeadToHead(ctx, m.teamAID, m.teamBID, m.season)
		if err != nil {
			return nil, fmt.Errorf("failed to load head-to-head: %w", err)
		}
		in.HeadToHead = analytics.HeadToHead(m.teamAID, m.teamBID, games)
	}

	result, err := prediction.Predict(in)
	if err != nil {
		return nil, err
	}

	analysis, err := prediction.AnalyzeMatchup(a.engine, b.engine)
	if err != nil {
		return nil, err
	}

	return &MatchupResponse{
		TeamA:       summarize(a),
		TeamB:       summarize(b),
		Prediction:  result,
		Analysis:    analysis,
		IsTeamAHome: m.isTeamAHome,
		NeutralSite: m.neutralSite,
		Season:      m.season,
	}, nil
}

func (s *MatchupService) recentForm(ctx context.Context, teamID int, season string) (*prediction.RecentForm, error) {
	games, err := s.store.ListRecentFinal(ctx, teamID, season, s.opts.RecentFormWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent games for team %d: %w", teamID, err)
	}

	form, _ := analytics.RecentFormForTeam(teamID, games, s.opts.RecentFormWindow)
	return form, nil
}

func summarize(t *loadedTeam) TeamSummary {
	st := t.stats
	return TeamSummary{
		ID:                t.team.ID,
		TeamID:            t.team.TeamID,
		Name:              t.team.Name,
		Abbreviation:      t.team.Abbreviation,
		Record:            fmt.Sprintf("%d-%d", st.Wins, st.Losses),
		HomeRecord:        fmt.Sprintf("%d-%d", st.HomeWins, st.HomeLosses),
		AwayRecord:        fmt.Sprintf("%d-%d", st.AwayWins, st.AwayLosses),
		OffensiveRating:   t.engine.OffensiveRating,
		DefensiveRating:   t.engine.DefensiveRating,
		PythagoreanWinPct: nullable(st.PythagoreanWinPct.Float64, st.PythagoreanWinPct.Valid),
		LuckFactor:        nullable(st.LuckFactor.Float64, st.LuckFactor.Valid),
	}
}

func nullable(v float64, valid bool) *float64 {
	if !valid {
		return nil
	}
	return &v
}
