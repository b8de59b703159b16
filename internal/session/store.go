package session

import "context"

// Store is the persistence contract shared by all session backends.
// Implementations must be safe for concurrent use and must return
// storage.ErrNotFound for absent or expired tokens, never a backend error.
// Connectivity failures are reported as storage.ErrUnavailable.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	// Delete is idempotent: deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
	// SweepExpired removes expired sessions and returns the count removed.
	SweepExpired(ctx context.Context) (int64, error)
}
