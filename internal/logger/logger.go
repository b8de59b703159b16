// Package logger wraps log/slog with environment-aware construction and a
// small set of attribute helpers used across the application.
package logger

import (
	"log/slog"
	"os"
)

type config struct {
	appName     string
	level       slog.Level
	development bool
}

// Option configures logger construction.
type Option func(*config)

// WithDevelopment enables human-readable text output at debug level.
func WithDevelopment(appName string) Option {
	return func(c *config) {
		c.appName = appName
		c.level = slog.LevelDebug
		c.development = true
	}
}

// WithProduction enables JSON output at info level.
func WithProduction(appName string) Option {
	return func(c *config) {
		c.appName = appName
		c.level = slog.LevelInfo
		c.development = false
	}
}

// WithLevel overrides the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// New creates a logger writing to stdout. Production mode emits JSON,
// development mode emits text.
func New(opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}

	ho := &slog.HandlerOptions{Level: cfg.level}

	var h slog.Handler
	if cfg.development {
		h = slog.NewTextHandler(os.Stdout, ho)
	} else {
		h = slog.NewJSONHandler(os.Stdout, ho)
	}

	log := slog.New(h)
	if cfg.appName != "" {
		log = log.With(slog.String("app", cfg.appName))
	}
	return log
}
