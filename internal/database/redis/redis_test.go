package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartflow-systems/SFS-Backend/internal/database/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyURL)
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{URL: "not-a-url"})
		assert.Error(t, err)
	})

	t.Run("connects and pings", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client, err := redis.Connect(ctx, redis.Config{URL: "redis://" + mr.Addr(), RetryAttempts: 1})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, redis.Healthcheck(client)(ctx))
	})

	t.Run("unreachable server exhausts retries", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(ctx, redis.Config{
			URL:           "redis://" + addr,
			RetryAttempts: 2,
			RetryInterval: 10 * time.Millisecond,
		})
		assert.ErrorIs(t, err, redis.ErrConnectionFailed)
	})
}
