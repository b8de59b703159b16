package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown identifiers and
	// wrong secrets; the two cases are deliberately indistinguishable so
	// login responses carry no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is returned when a session token is absent,
	// unknown, or expired. It is an expected condition, not a system error.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrEmailTaken is returned when registering an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
)
