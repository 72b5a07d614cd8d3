// Package api serves the dashboard's JSON endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"nba_dashboard/backend/internal/cache"
	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Predictor runs matchup predictions
type Predictor interface {
	Predict(ctx context.Context, req service.MatchupRequest) (*service.MatchupResponse, error)
}

// Store is the read side of the repositories the handlers need
type Store interface {
	Health(ctx context.Context) error
	ListTeams(ctx context.Context) ([]*models.Team, error)
	ListSeasonStats(ctx context.Context, season string) ([]*models.TeamSeasonStats, error)
	ListHeadToHead(ctx context.Context, team1ID, team2ID int, season string) ([]*models.Game, error)
	ListRecentFinal(ctx context.Context, teamID int, season string, limit int) ([]*models.Game, error)
	ListTeamSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Game, error)
}

// Syncer triggers ingestion on demand. *scheduler.Syncer satisfies it.
type Syncer interface {
	SyncTeams(ctx context.Context, season string) (int, error)
	SyncGames(ctx context.Context, season string) (int, error)
	RecomputeAggregates(ctx context.Context, season string) (int, error)
	SyncScoreboard(ctx context.Context, now time.Time) ([]*models.Game, error)
	PredictUpcoming(ctx context.Context, now time.Time) (int, error)
}

// Cache stores the team list. *cache.RedisCache satisfies it, including a nil one.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Options configures a Server
type Options struct {
	DefaultSeason string
	Location      *time.Location // decides which calendar day is "today"
	TeamsTTL      time.Duration
	SyncTimeout   time.Duration
}

// Server holds the handler dependencies
type Server struct {
	predictor Predictor
	store     Store
	syncer    Syncer
	cache     Cache
	opts      Options
	now       func() time.Time
}

// NewServer creates a Server. c may be nil. A nil syncer disables the fetch endpoints.
func NewServer(predictor Predictor, store Store, syncer Syncer, c Cache, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if c == nil {
		c = (*cache.RedisCache)(nil)
	}
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = 5 * time.Minute
	}
	return &Server{
		predictor: predictor,
		store:     store,
		syncer:    syncer,
		cache:     c,
		opts:      opts,
		now:       time.Now,
	}
}

// Router builds the route table with middleware applied
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, instrument, recoverPanics)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/teams", s.handleTeams).Methods(http.MethodGet)
	api.HandleFunc("/matchup", s.handleMatchup).Methods(http.MethodPost)
	api.HandleFunc("/head-to-head", s.handleHeadToHead).Methods(http.MethodGet)
	api.HandleFunc("/recent-games", s.handleRecentGames).Methods(http.MethodGet)
	api.HandleFunc("/team-progression", s.handleTeamProgression).Methods(http.MethodGet)
	api.HandleFunc("/todays-games", s.handleTodaysGames).Methods(http.MethodGet)

	api.HandleFunc("/fetch-nba-data", s.handleFetchData).Methods(http.MethodPost)
	api.HandleFunc("/fetch-nba-games", s.handleFetchGames).Methods(http.MethodPost)
	api.HandleFunc("/fetch-todays-games", s.handleFetchTodaysGames).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", RequestID: RequestIDFrom(r.Context())})
	})

	return r
}
