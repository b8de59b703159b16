// Package session implements server-side sessions bound to opaque
// client-held tokens, with pluggable persistence and configurable expiry.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque token to an authentication state.
type Session struct {
	// Token is the cryptographically secure session identifier
	// (32 bytes, base64url). It is the only thing the client holds.
	Token string

	// UserID identifies the authenticated principal. uuid.Nil means the
	// session is anonymous.
	UserID uuid.UUID

	// Data holds a small key/value payload owned by the application.
	Data map[string]string

	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
}

// New creates a session for the given user expiring after ttl.
// Pass uuid.Nil for an anonymous session.
func New(userID uuid.UUID, ttl time.Duration) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return &Session{
		Token:      token,
		UserID:     userID,
		Data:       map[string]string{},
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// IsAuthenticated reports whether the session is bound to a principal.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// generateToken creates a 256-bit random token encoded as base64url
// without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
