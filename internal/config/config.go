package config

import (
	"fmt"
	"os"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	// stats.nba.com API
	NBAStatsBaseURL    string        `envconfig:"NBA_STATS_BASE_URL" default:"https://stats.nba.com/stats"`
	NBAStatsTimeout    time.Duration `envconfig:"NBA_STATS_TIMEOUT" default:"30s"`
	NBAStatsMaxRetries int           `envconfig:"NBA_STATS_MAX_RETRIES" default:"3"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nba_dashboard"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nba_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	APIPort       int    `envconfig:"API_PORT" default:"8080"`
	DefaultSeason string `envconfig:"DEFAULT_SEASON" default:"2025-26"`
	Timezone      string `envconfig:"TIMEZONE" default:"America/New_York"` // NBA calendar dates are US Eastern

	// Scheduler
	EnableScheduler        bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled     bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	NightlyRefreshCron     string `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 4 * * *"`
	ScoreboardPollInterval int    `envconfig:"SCOREBOARD_POLL_INTERVAL" default:"120"` // seconds

	// Prediction
	RecentFormWindow int `envconfig:"RECENT_FORM_WINDOW" default:"10"`

	// API Rate Limiting (requests per second against stats.nba.com)
	APIRateLimit  int `envconfig:"API_RATE_LIMIT" default:"2"`
	APIBurstLimit int `envconfig:"API_BURST_LIMIT" default:"1"`

	// Caching TTL (in seconds)
	CacheTTLTeams       int `envconfig:"CACHE_TTL_TEAMS" default:"86400"`     // 24 hours
	CacheTTLPredictions int `envconfig:"CACHE_TTL_PREDICTIONS" default:"600"` // 10 minutes

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if err := models.ValidateSeason(c.DefaultSeason); err != nil {
		return fmt.Errorf("DEFAULT_SEASON: %w", err)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}

	if _, err := cron.ParseStandard(c.NightlyRefreshCron); err != nil {
		return fmt.Errorf("NIGHTLY_REFRESH_CRON %q: %w", c.NightlyRefreshCron, err)
	}

	if c.APIRateLimit <= 0 || c.APIBurstLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_BURST_LIMIT must be positive")
	}

	if c.ScoreboardPollInterval <= 0 {
		return fmt.Errorf("SCOREBOARD_POLL_INTERVAL must be positive")
	}

	if c.RecentFormWindow < 0 {
		return fmt.Errorf("RECENT_FORM_WINDOW must not be negative")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Location returns the configured timezone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PredictionTTL returns the prediction cache TTL
func (c *Config) PredictionTTL() time.Duration {
	return time.Duration(c.CacheTTLPredictions) * time.Second
}

// TeamsTTL returns the team list cache TTL
func (c *Config) TeamsTTL() time.Duration {
	return time.Duration(c.CacheTTLTeams) * time.Second
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits the process on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
