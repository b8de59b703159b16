// Package redis provides Redis connection management with a ping-verified
// connect and a healthcheck suitable for readiness probes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrEmptyURL is returned when no REDIS_URL is configured.
	ErrEmptyURL = errors.New("redis: empty connection URL")
	// ErrConnectionFailed is returned when the server cannot be reached
	// after all retry attempts.
	ErrConnectionFailed = errors.New("redis: failed to connect")
)

// Config holds Redis connection configuration.
type Config struct {
	URL           string        `env:"REDIS_URL"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
}

// Connect creates a Redis client and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse URL: %w", err)
	}

	client := redis.NewClient(opts)

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryInterval):
			}
		}
		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = err
			continue
		}
		return client, nil
	}

	_ = client.Close()
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck returns a probe function verifying server connectivity.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
