// Package cache stores computed predictions and team lists in Redis.
// A nil *RedisCache is valid and caches nothing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"nba_dashboard/backend/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "nba"

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps a go-redis client with JSON helpers
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection with PING
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// GetJSON loads key into dest. It reports false on a miss; a nil cache always misses.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	kind := keyKind(key)
	start := time.Now()
	data, err := c.client.Get(ctx, key).Bytes()
	metrics.RecordCacheOperation("get", time.Since(start).Seconds())

	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss(kind)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// treat a stale or foreign payload as a miss
		log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		metrics.RecordCacheMiss(kind)
		return false, nil
	}

	metrics.RecordCacheHit(kind)
	return true, nil
}

// SetJSON stores value under key with the given TTL
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	start := time.Now()
	err = c.client.Set(ctx, key, data, ttl).Err()
	metrics.RecordCacheOperation("set", time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

// Delete removes keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	start := time.Now()
	err := c.client.Del(ctx, keys...).Err()
	metrics.RecordCacheOperation("delete", time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}

	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// PredictionKey identifies a matchup prediction. Every input that changes the result is part of the key.
func PredictionKey(season string, teamAID, teamBID int, isTeamAHome, neutralSite, withForm, withHistory bool) string {
	return fmt.Sprintf("%s:prediction:%s:%d:%d:%s",
		keyPrefix, season, teamAID, teamBID,
		flags(isTeamAHome, neutralSite, withForm, withHistory))
}

// TeamsKey identifies the team list for a season
func TeamsKey(season string) string {
	return fmt.Sprintf("%s:teams:%s", keyPrefix, season)
}

func flags(values ...bool) string {
	var b strings.Builder
	for _, v := range values {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// keyKind extracts the metrics label ("prediction", "teams") from a key
func keyKind(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return "other"
	}
	return parts[1]
}
