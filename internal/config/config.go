// Package config provides type-safe environment variable loading with
// per-type caching. A .env file is loaded once on first use, then struct
// fields are populated via caarlos0/env tags.
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> loaded config value
)

// Load populates cfg from the environment. cfg must be a non-nil pointer to
// a struct. Each concrete type is parsed once per process; subsequent calls
// return the cached value.
func Load(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: expected non-nil struct pointer, got %T", cfg)
	}

	// Missing .env is not an error; real environments set variables directly.
	dotenvOnce.Do(func() { _ = godotenv.Load() })

	typ := v.Elem().Type()
	if cached, ok := cache.Load(typ); ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	cache.Store(typ, v.Elem().Interface())
	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
