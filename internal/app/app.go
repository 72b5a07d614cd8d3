// Package app wires configuration into the database, cache, upstream client,
// ingestion and prediction service shared by the binaries.
package app

import (
	"context"
	"os"
	"strconv"
	"time"

	"nba_dashboard/backend/internal/cache"
	"nba_dashboard/backend/internal/client"
	"nba_dashboard/backend/internal/config"
	"nba_dashboard/backend/internal/repository"
	"nba_dashboard/backend/internal/scheduler"
	"nba_dashboard/backend/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived dependencies
type App struct {
	Config  *config.Config
	DB      *repository.Database
	Cache   *cache.RedisCache // nil when Redis is disabled or unreachable
	Client  *client.Client
	Matchup *service.MatchupService
	Syncer  *scheduler.Syncer
}

// SetupLogger configures the global zerolog logger from APP_ENV and LOG_LEVEL
func SetupLogger(cfg *config.Config) {
	// Pretty console logging in development
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := cfg.LogLevel; lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// New connects to Postgres and, when enabled, Redis. A Redis failure is logged
// and the app continues without a cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Database connection established")

	var redisCache *cache.RedisCache
	if cfg.RedisEnabled {
		redisCache, err = cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr()).Msg("Failed to connect to Redis - continuing without cache")
			redisCache = nil
		} else {
			log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis cache connected")
		}
	}

	loc := cfg.Location()
	nbaClient := client.NewClient(client.Config{
		BaseURL:    cfg.NBAStatsBaseURL,
		Timeout:    cfg.NBAStatsTimeout,
		MaxRetries: cfg.NBAStatsMaxRetries,
		RateLimit:  float64(cfg.APIRateLimit),
		BurstLimit: cfg.APIBurstLimit,
		Location:   loc,
	})

	matchup := service.NewMatchupService(service.NewRepositoryStore(db), redisCache, service.Options{
		DefaultSeason:    cfg.DefaultSeason,
		RecentFormWindow: cfg.RecentFormWindow,
		CacheTTL:         cfg.PredictionTTL(),
	})

	syncer := scheduler.NewSyncer(nbaClient, scheduler.DBStore{DB: db}, matchup, loc)

	return &App{
		Config:  cfg,
		DB:      db,
		Cache:   redisCache,
		Client:  nbaClient,
		Matchup: matchup,
		Syncer:  syncer,
	}, nil
}

// SchedulerConfig maps the configuration onto the scheduler's settings
func (a *App) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		Season:       a.Config.DefaultSeason,
		NightlyCron:  a.Config.NightlyRefreshCron,
		PollInterval: time.Duration(a.Config.ScoreboardPollInterval) * time.Second,
		Location:     a.Config.Location(),
	}
}

// Close releases the cache and the database pool
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	a.DB.Close()
}
