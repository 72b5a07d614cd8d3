package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionKey(t *testing.T) {
	key := PredictionKey("2025-26", 1610612738, 1610612747, true, false, true, false)
	assert.Equal(t, "nba:prediction:2025-26:1610612738:1610612747:1010", key)

	// orientation and options are part of the key
	assert.NotEqual(t, key, PredictionKey("2025-26", 1610612747, 1610612738, true, false, true, false))
	assert.NotEqual(t, key, PredictionKey("2025-26", 1610612738, 1610612747, false, true, true, false))
}

func TestTeamsKey(t *testing.T) {
	assert.Equal(t, "nba:teams:2024-25", TeamsKey("2024-25"))
}

func TestKeyKind(t *testing.T) {
	assert.Equal(t, "prediction", keyKind(PredictionKey("2025-26", 1, 2, true, false, false, false)))
	assert.Equal(t, "teams", keyKind(TeamsKey("2025-26")))
	assert.Equal(t, "other", keyKind("plain"))
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *RedisCache
	ctx := context.Background()

	var dest map[string]any
	found, err := c.GetJSON(ctx, TeamsKey("2025-26"), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.SetJSON(ctx, TeamsKey("2025-26"), map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, c.Delete(ctx, TeamsKey("2025-26")))
	assert.NoError(t, c.Close())
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(Config{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}
