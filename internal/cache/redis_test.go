package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisCache runs against a live server when TRIPLEDGER_TEST_REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TRIPLEDGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRIPLEDGER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "tripledger-test:"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "user:1", "Alice", time.Minute))
	val, ok, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alice", val)

	require.NoError(t, c.Delete(ctx, "user:1"))
	_, ok, err = c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
