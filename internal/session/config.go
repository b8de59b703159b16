package session

import (
	"fmt"
	"time"
)

// ExpiryMode selects how session expiry behaves on use.
type ExpiryMode string

const (
	// ExpirySliding extends the expiry on each successful use.
	ExpirySliding ExpiryMode = "sliding"
	// ExpiryFixed sets the expiry once at creation and never extends it.
	ExpiryFixed ExpiryMode = "fixed"
)

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (m *ExpiryMode) UnmarshalText(text []byte) error {
	switch v := ExpiryMode(text); v {
	case ExpirySliding, ExpiryFixed:
		*m = v
		return nil
	default:
		return fmt.Errorf("session: unknown expiry mode %q", text)
	}
}

// Config holds session lifecycle configuration.
type Config struct {
	// TTL is the session time-to-live.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	// ExpiryMode is "sliding" or "fixed".
	ExpiryMode ExpiryMode `env:"SESSION_EXPIRY_MODE" envDefault:"sliding"`
	// TouchInterval throttles expiry-extension writes in sliding mode.
	// Zero persists on every use.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
	// SweepInterval is the cadence of the expired-session sweeper.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"`
}

// DefaultConfig returns the defaults used when no environment is present.
func DefaultConfig() Config {
	return Config{
		TTL:           168 * time.Hour,
		ExpiryMode:    ExpirySliding,
		TouchInterval: 5 * time.Minute,
		SweepInterval: time.Hour,
	}
}
