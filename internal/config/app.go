package config

import (
	"errors"
	"fmt"

	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	"github.com/smartflow-systems/SFS-Backend/internal/database/pg"
	"github.com/smartflow-systems/SFS-Backend/internal/database/redis"
	"github.com/smartflow-systems/SFS-Backend/internal/server"
	"github.com/smartflow-systems/SFS-Backend/internal/session"
	"github.com/smartflow-systems/SFS-Backend/internal/webapp"
)

// Environment is the process runtime mode.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// SessionBackend selects the session store implementation at startup.
type SessionBackend string

const (
	BackendPostgres SessionBackend = "postgres"
	BackendRedis    SessionBackend = "redis"
	BackendMemory   SessionBackend = "memory"
)

// App is the root application configuration.
type App struct {
	AppName     string      `env:"APP_NAME" envDefault:"sfs-backend"`
	Environment Environment `env:"APP_ENV" envDefault:"development"`

	// SessionSecret signs session cookies. At least 32 bytes.
	SessionSecret string `env:"SESSION_SECRET"`

	// SessionBackend is "postgres", "redis", or "memory".
	SessionBackend SessionBackend `env:"SESSION_STORE" envDefault:"memory"`

	Server  server.Config
	Session session.Config
	Auth    auth.Config
	PG      pg.Config
	Redis   redis.Config
	Webapp  webapp.Config
}

// IsProduction reports whether the process runs in production mode.
func (c App) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate enforces startup invariants. In production a missing session
// secret or a missing connection string for the selected durable backend is
// fatal misconfiguration; it must never surface as a per-request error.
func (c App) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}

	switch c.SessionBackend {
	case BackendPostgres, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: unknown session backend %q", c.SessionBackend)
	}

	if !c.IsProduction() {
		return nil
	}

	if len(c.SessionSecret) < 32 {
		return errors.New("config: SESSION_SECRET of at least 32 bytes is required in production")
	}
	switch c.SessionBackend {
	case BackendMemory:
		return errors.New("config: in-process session store is not allowed in production; set SESSION_STORE to postgres or redis")
	case BackendPostgres:
		if c.PG.ConnectionString == "" {
			return errors.New("config: DATABASE_URL is required when SESSION_STORE=postgres")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("config: REDIS_URL is required when SESSION_STORE=redis")
		}
	}
	return nil
}
