// Package webapp serves the client application for every request the API
// router did not match. The serving strategy is chosen once at construction
// from the runtime mode: development proxies to the live front-end dev
// server, production serves the precompiled bundle from disk.
package webapp

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Mode is the process runtime mode.
type Mode string

const (
	// ModeDevelopment proxies unmatched requests to the front-end dev
	// server, keeping hot reload intact.
	ModeDevelopment Mode = "development"
	// ModeProduction serves precompiled static assets from disk.
	ModeProduction Mode = "production"
)

// Config holds client-app serving configuration.
type Config struct {
	// DevServerURL is the front-end dev server proxied to in development.
	DevServerURL string `env:"DEV_SERVER_URL" envDefault:"http://localhost:5173"`
	// StaticDir is the precompiled bundle directory served in production.
	StaticDir string `env:"STATIC_DIR" envDefault:"dist/public"`
	// IndexFile is the entry document for client-side-routed paths.
	IndexFile string `env:"STATIC_INDEX" envDefault:"index.html"`
}

// New returns the catch-all handler for the given mode. The mode is fixed
// for the process lifetime; nothing is re-evaluated per request.
func New(mode Mode, cfg Config, log *slog.Logger) (http.Handler, error) {
	switch mode {
	case ModeDevelopment:
		return newDevProxy(cfg.DevServerURL, log)
	case ModeProduction:
		return newSPA(cfg.StaticDir, cfg.IndexFile)
	default:
		return nil, fmt.Errorf("webapp: unknown mode %q", mode)
	}
}
