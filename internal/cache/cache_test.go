package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/config"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, c.items)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = c.Set(ctx, key, "v", time.Minute)
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.items, 4)
}

func TestNewWithoutRedisAddr(t *testing.T) {
	c := New(context.Background(), &config.Config{}, zap.NewNop())
	assert.IsType(t, &MemoryCache{}, c)
}

func TestNewFallsBackWhenRedisIsUnreachable(t *testing.T) {
	cfg := &config.Config{RedisAddr: "127.0.0.1:1"}
	c := New(context.Background(), cfg, zap.NewNop())
	assert.IsType(t, &MemoryCache{}, c)
}

func TestKey(t *testing.T) {
	type input struct {
		Principal string `json:"principal"`
		Months    int    `json:"months"`
	}

	a, err := Key("sim", input{"100000", 12})
	require.NoError(t, err)
	b, err := Key("sim", input{"100000", 12})
	require.NoError(t, err)
	c, err := Key("sim", input{"100000", 24})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, len("sim:")+64)

	_, err = Key("sim", func() {})
	assert.Error(t, err)
}
