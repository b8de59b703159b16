// Package pg provides PostgreSQL connection management with retry-on-connect,
// embedded goose migrations, and a healthcheck suitable for readiness probes.
package pg

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrEmptyConnectionString is returned when no DATABASE_URL is configured.
	ErrEmptyConnectionString = errors.New("pg: empty connection string")
	// ErrConnectionFailed is returned when the pool cannot be established
	// after all retry attempts.
	ErrConnectionFailed = errors.New("pg: failed to connect")
)

// Config holds PostgreSQL connection configuration.
type Config struct {
	ConnectionString string        `env:"DATABASE_URL"`
	MaxConns         int32         `env:"PG_MAX_CONNS" envDefault:"10"`
	MinConns         int32         `env:"PG_MIN_CONNS" envDefault:"2"`
	MaxConnIdleTime  time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime  time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts    int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
}

// Connect creates a connection pool and verifies it with a ping, retrying
// with a fixed interval to ride out transient startup races.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("pg: parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

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

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			lastErr = err
			continue
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			lastErr = err
			continue
		}
		return pool, nil
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Migrate applies the embedded goose migrations. goose speaks database/sql,
// so the pool is adapted through pgx's stdlib bridge.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("pg: set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("pg: apply migrations: %w", err)
	}
	return nil
}

// Healthcheck returns a probe function verifying pool connectivity.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
