// Package cookie handles HTTP cookie operations with HMAC signing, so a
// client cannot forge or tamper with server-issued values such as session
// tokens.
package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

// minSecretLength is the minimum secret length for HMAC-SHA256 keys.
const minSecretLength = 32

var (
	// ErrNoSecret is returned when the manager is created without a secret.
	ErrNoSecret = errors.New("cookie: signing secret is required")
	// ErrSecretTooShort is returned when the secret is below the minimum length.
	ErrSecretTooShort = errors.New("cookie: signing secret is too short")
	// ErrNotFound is returned when the requested cookie is absent.
	ErrNotFound = errors.New("cookie: not found")
	// ErrInvalidSignature is returned when a signed value fails verification.
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)

// Manager signs and verifies cookie values with a process-wide secret.
type Manager struct {
	secret   []byte
	defaults Options
}

// Options describe cookie attributes applied on Set.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// Option overrides a single cookie attribute.
type Option func(*Options)

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithMaxAge sets the cookie lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

// WithSecure restricts the cookie to HTTPS connections.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

// WithSameSite sets the SameSite policy.
func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}

// New creates a cookie manager. The secret must be at least 32 bytes.
func New(secret string, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}

	defaults := Options{
		Path:     "/",
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(&defaults)
	}

	return &Manager{secret: []byte(secret), defaults: defaults}, nil
}

// SetSigned stores a signed cookie value.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	options := m.defaults
	for _, opt := range opts {
		opt(&options)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    m.sign(value),
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HTTPOnly,
		SameSite: options.SameSite,
	})
}

// GetSigned retrieves and verifies a signed cookie value.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return m.verify(c.Value)
}

// Delete removes a cookie by expiring it immediately.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HTTPOnly,
		SameSite: m.defaults.SameSite,
	})
}

// sign encodes value as payload.signature, both base64url without padding.
func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(value))
	payload := base64.RawURLEncoding.EncodeToString([]byte(value))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "." + sig
}

// verify checks the signature with a constant-time comparison and returns
// the original value.
func (m *Manager) verify(signed string) (string, error) {
	payload, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidSignature
	}

	value, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidSignature
	}
	gotSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, m.secret)
	mac.Write(value)
	if !hmac.Equal(gotSig, mac.Sum(nil)) {
		return "", ErrInvalidSignature
	}

	return string(value), nil
}
