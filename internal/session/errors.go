package session

import "errors"

var (
	// ErrExpired is returned when a session exists but is past its expiry.
	// Expiry is enforced at read time, not only by the sweeper.
	ErrExpired = errors.New("session has expired")
	// ErrTokenGeneration is returned when random token generation fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
)
