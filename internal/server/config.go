package server

import (
	"fmt"
	"time"
)

// Config holds HTTP server configuration.
type Config struct {
	Port            int           `env:"PORT" envDefault:"5000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxHeaderBytes  int           `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
