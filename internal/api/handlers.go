package api

import (
	"context"
	"net/http"

	"nba_dashboard/backend/internal/analytics"
	"nba_dashboard/backend/internal/cache"
	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"
	"nba_dashboard/backend/internal/service"

	"github.com/rs/zerolog/log"
)

const defaultRecentGames = 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Health(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	season, err := s.seasonParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := cache.TeamsKey(season)
	var cached []TeamView
	if found, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Teams cache read failed")
	} else if found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := s.store.ListSeasonStats(ctx, season)
	if err != nil {
		writeError(w, r, err)
		return
	}

	byTeam := make(map[int]*models.TeamSeasonStats, len(stats))
	for _, st := range stats {
		byTeam[st.TeamID] = st
	}

	views := make([]TeamView, 0, len(teams))
	for _, team := range teams {
		views = append(views, newTeamView(team, byTeam[team.TeamID]))
	}

	if err := s.cache.SetJSON(ctx, key, views, s.opts.TeamsTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Teams cache write failed")
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleMatchup(w http.ResponseWriter, r *http.Request) {
	var req service.MatchupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.predictor.Predict(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	team1ID, err := intParam(r, "team1Id", true, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	team2ID, err := intParam(r, "team2Id", true, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	season, err := s.seasonParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	games, err := s.store.ListHeadToHead(r.Context(), team1ID, team2ID, season)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameViews(games))
}

type recentGamesResponse struct {
	Games      []analytics.RecentGame `json:"games"`
	RecentForm *prediction.RecentForm `json:"recentForm"`
}

func (s *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	teamID, err := intParam(r, "teamId", true, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", false, defaultRecentGames)
	if err != nil {
		writeError(w, r, err)
		return
	}
	season, err := s.seasonParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	games, err := s.store.ListRecentFinal(r.Context(), teamID, season, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	form, rows := analytics.RecentFormForTeam(teamID, games, limit)
	if form == nil {
		form = &prediction.RecentForm{}
	}

	writeJSON(w, http.StatusOK, recentGamesResponse{Games: rows, RecentForm: form})
}

type progressionResponse struct {
	TeamID      int                          `json:"teamId"`
	Season      string                       `json:"season"`
	Progression []analytics.ProgressionPoint `json:"progression"`
}

func (s *Server) handleTeamProgression(w http.ResponseWriter, r *http.Request) {
	teamID, err := intParam(r, "teamId", true, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	season, err := s.seasonParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	games, err := s.store.ListTeamSeason(r.Context(), teamID, season)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progressionResponse{
		TeamID:      teamID,
		Season:      season,
		Progression: analytics.TeamProgression(teamID, games),
	})
}

// handleTodaysGames lists today's scheduled and finished games. In-progress games are
// left out until the scoreboard reports them final.
func (s *Server) handleTodaysGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := models.CalendarDay(s.now(), s.opts.Location)

	games, err := s.store.ListByDateRange(ctx, today, today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	byID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		byID[t.TeamID] = t
	}

	out := make([]TodaysGameView, 0, len(games))
	for _, g := range games {
		if !g.IsFinal() && !g.IsScheduled() {
			continue
		}
		home, away := g.ScoresFor(g.HomeTeamID)
		out = append(out, TodaysGameView{
			GameID:    g.GameID,
			GameDate:  g.GameDate.Format(dateLayout),
			HomeTeam:  newTeamRef(byID[g.HomeTeamID], g.HomeTeamID),
			AwayTeam:  newTeamRef(byID[g.AwayTeamID], g.AwayTeamID),
			HomeScore: home,
			AwayScore: away,
			Status:    g.Status,
			GameTime:  g.Status,
			IsFinal:   g.IsFinal(),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

type fetchRequest struct {
	Season string `json:"season"`
}

type fetchResponse struct {
	Success    bool   `json:"success"`
	Season     string `json:"season,omitempty"`
	Teams      int    `json:"teams,omitempty"`
	Games      int    `json:"games,omitempty"`
	Aggregated int    `json:"aggregated,omitempty"`
	Predicted  int    `json:"predicted,omitempty"`
}

func (s *Server) fetchSeason(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.syncer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "ingestion is not configured",
			RequestID: RequestIDFrom(r.Context()),
		})
		return "", false
	}

	var req fetchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return "", false
	}
	if req.Season == "" {
		req.Season = s.opts.DefaultSeason
	}
	if err := models.ValidateSeason(req.Season); err != nil {
		writeError(w, r, err)
		return "", false
	}
	return req.Season, true
}

// syncContext outlives a client disconnect so a started sync runs to completion
func (s *Server) syncContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), s.opts.SyncTimeout)
}

func (s *Server) handleFetchData(w http.ResponseWriter, r *http.Request) {
	season, ok := s.fetchSeason(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.syncContext(r)
	defer cancel()

	n, err := s.syncer.SyncTeams(ctx, season)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.cache.Delete(ctx, cache.TeamsKey(season)); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate teams cache")
	}

	writeJSON(w, http.StatusOK, fetchResponse{Success: true, Season: season, Teams: n})
}

func (s *Server) handleFetchGames(w http.ResponseWriter, r *http.Request) {
	season, ok := s.fetchSeason(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.syncContext(r)
	defer cancel()

	games, err := s.syncer.SyncGames(ctx, season)
	if err != nil {
		writeError(w, r, err)
		return
	}
	aggregated, err := s.syncer.RecomputeAggregates(ctx, season)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.cache.Delete(ctx, cache.TeamsKey(season)); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate teams cache")
	}

	writeJSON(w, http.StatusOK, fetchResponse{Success: true, Season: season, Games: games, Aggregated: aggregated})
}

func (s *Server) handleFetchTodaysGames(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "ingestion is not configured",
			RequestID: RequestIDFrom(r.Context()),
		})
		return
	}
	ctx, cancel := s.syncContext(r)
	defer cancel()

	now := s.now()
	games, err := s.syncer.SyncScoreboard(ctx, now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	predicted, err := s.syncer.PredictUpcoming(ctx, now)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fetchResponse{Success: true, Games: len(games), Predicted: predicted})
}
