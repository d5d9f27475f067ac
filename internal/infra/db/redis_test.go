package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/config"
)

func TestNewRedisConnection(t *testing.T) {
	mr := miniredis.RunT(t)

	t.Run("connects and reports healthy", func(t *testing.T) {
		conn, err := NewRedisConnection(&config.RedisConfig{URL: "redis://" + mr.Addr() + "/0", DB: 2})
		require.NoError(t, err)
		defer conn.Close()

		assert.Equal(t, 2, conn.Client().Options().DB)
		assert.True(t, conn.HealthCheck(context.Background()))
	})

	t.Run("rejects a malformed url", func(t *testing.T) {
		_, err := NewRedisConnection(&config.RedisConfig{URL: "http://" + mr.Addr()})
		assert.Error(t, err)
	})

	t.Run("fails when redis is unreachable", func(t *testing.T) {
		_, err := NewRedisConnection(&config.RedisConfig{URL: "redis://127.0.0.1:1"})
		assert.Error(t, err)
	})
}

func TestRedisHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer cache.Close()

	assert.True(t, cache.HealthCheck(context.Background()))

	mr.Close()
	assert.False(t, cache.HealthCheck(context.Background()))
}
