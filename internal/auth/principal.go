// Package auth verifies credentials against a principal store and manages
// the session-backed authentication lifecycle.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Principal is an authenticated identity. PasswordHash is a bcrypt hash;
// the raw credential is never stored and never leaves VerifyCredentials.
type Principal struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserStore is the principal persistence contract. The pipeline only reads
// principals for verification; Create exists for account registration.
// Lookups return storage.ErrNotFound for unknown principals and
// storage.ErrUnavailable for backend failures.
type UserStore interface {
	Create(ctx context.Context, p *Principal) error
	ByEmail(ctx context.Context, email string) (*Principal, error)
	ByID(ctx context.Context, id uuid.UUID) (*Principal, error)
}
