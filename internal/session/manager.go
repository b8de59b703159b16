package session

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartflow-systems/SFS-Backend/internal/logger"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

// Manager coordinates the session lifecycle against a Store. The backend is
// a constructor-time decision; nothing branches on it per call.
type Manager struct {
	store Store
	cfg   Config
	log   *slog.Logger
}

// NewManager creates a session manager. A nil logger discards sweeper output.
func NewManager(store Store, cfg Config, log *slog.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.ExpiryMode == "" {
		cfg.ExpiryMode = ExpirySliding
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{store: store, cfg: cfg, log: log}
}

// TTL returns the configured session time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Create allocates and persists a new session for userID.
// Pass uuid.Nil for an anonymous session.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID) (*Session, error) {
	sess, err := New(userID, m.cfg.TTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get resolves a session by token, enforcing expiry at read time even when
// the backing record is still physically present.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		// Best effort; the sweeper will catch it otherwise.
		_ = m.store.Delete(ctx, token)
		return nil, ErrExpired
	}
	return sess, nil
}

// Touch records session use. In sliding mode the expiry is extended and the
// write is throttled by the touch interval; in fixed mode the expiry is left
// untouched and only the last-access timestamp moves. Concurrent touches of
// the same session race last-write-wins, which is acceptable here.
func (m *Manager) Touch(ctx context.Context, sess *Session) error {
	now := time.Now()
	throttled := m.cfg.TouchInterval > 0 && now.Sub(sess.LastSeenAt) < m.cfg.TouchInterval
	sess.LastSeenAt = now

	if m.cfg.ExpiryMode == ExpirySliding {
		if throttled {
			return nil
		}
		sess.ExpiresAt = now.Add(m.cfg.TTL)
	} else if throttled {
		return nil
	}

	return m.store.Put(ctx, sess)
}

// Save persists the session as-is.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.store.Put(ctx, sess)
}

// Delete removes the session. Deleting an absent token is not an error.
func (m *Manager) Delete(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil && !storage.IsNotFound(err) {
		return err
	}
	return nil
}

// SweepExpired removes all expired sessions from the store.
func (m *Manager) SweepExpired(ctx context.Context) (int64, error) {
	return m.store.SweepExpired(ctx)
}

// RunSweeper periodically removes expired sessions until ctx is canceled.
// Intended to run in its own goroutine alongside the HTTP server.
func (m *Manager) RunSweeper(ctx context.Context) {
	interval := m.cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultConfig().SweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := m.SweepExpired(ctx)
			if err != nil {
				m.log.ErrorContext(ctx, "session sweep failed",
					logger.Component("session.sweeper"), logger.Error(err))
				continue
			}
			if count > 0 {
				m.log.InfoContext(ctx, "expired sessions removed",
					logger.Component("session.sweeper"), slog.Int64("count", count))
			}
		}
	}
}
