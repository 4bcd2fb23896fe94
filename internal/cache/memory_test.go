package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Cache = (*MemoryCache)(nil)
var _ Cache = (*RedisCache)(nil)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "forever", "a", 0))
	require.NoError(t, c.Set(ctx, "short", "b", time.Minute))

	val, ok, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", val)

	now = now.Add(time.Minute)

	_, ok, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire once its TTL has passed")
	assert.Equal(t, 1, c.Len())

	val, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "a", val)

	require.NoError(t, c.Delete(ctx, "forever"))
	require.NoError(t, c.Delete(ctx, "missing"))
	_, ok, _ = c.Get(ctx, "forever")
	assert.False(t, ok)
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = c.Set(ctx, key, "v", time.Second)
			_, _, _ = c.Get(ctx, key)
			_ = c.Delete(ctx, key)
		}(i)
	}
	wg.Wait()
}
