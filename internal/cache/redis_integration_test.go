//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := redis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisClient(t *testing.T) {
	ctx := context.Background()
	client, err := NewRedisClient(RedisConfig{Addr: startRedis(t), PoolSize: 2})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, client.Set(ctx, Key("emb", "a"), []byte("1"), time.Minute))
	require.NoError(t, client.Set(ctx, Key("emb", "b"), []byte("2"), time.Minute))

	got, err := client.Get(ctx, Key("emb", "a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, client.Delete(ctx, Key("emb", "a")))
	_, err = client.Get(ctx, Key("emb", "a"))
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err = client.Get(ctx, Key("emb", "b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}
