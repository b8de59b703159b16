package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartflow-systems/SFS-Backend/internal/session"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

// dummyHash is compared against when the identifier is unknown, keeping
// verification time flat for present and absent principals.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Config holds authentication tuning.
type Config struct {
	// BcryptCost is the work factor for new password hashes.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// Manager implements credential verification and the session state machine:
// Anonymous -> Authenticated on StartSession, back to Anonymous on
// EndSession or expiry. There are no other transitions.
type Manager struct {
	users    UserStore
	sessions *session.Manager
	cost     int
}

// NewManager creates an authentication manager.
func NewManager(users UserStore, sessions *session.Manager, cfg Config) *Manager {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Manager{users: users, sessions: sessions, cost: cost}
}

// Register creates a principal with a bcrypt-hashed credential.
func (m *Manager) Register(ctx context.Context, email, password, name string) (*Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := m.users.ByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !storage.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return nil, err
	}

	p := &Principal{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := m.users.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyCredentials looks up the principal by identifier and compares the
// secret against the stored hash. Unknown identifier and wrong secret both
// yield ErrInvalidCredentials. Store connectivity failures pass through
// untouched so they are never mistaken for a bad login.
func (m *Manager) VerifyCredentials(ctx context.Context, email, secret string) (*Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p, err := m.users.ByEmail(ctx, email)
	if err != nil {
		if storage.IsNotFound(err) {
			// Burn the same work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(secret)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// StartSession allocates a fresh unguessable token bound to the principal
// and persists it via the session store.
func (m *Manager) StartSession(ctx context.Context, p *Principal) (*session.Session, error) {
	return m.sessions.Create(ctx, p.ID)
}

// EndSession deletes the session unconditionally. Idempotent.
func (m *Manager) EndSession(ctx context.Context, token string) error {
	return m.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its principal. Absent or expired
// sessions yield ErrUnauthenticated; a successful call touches the session
// (extending expiry in sliding mode). storage.ErrUnavailable is surfaced
// as-is: the caller must fail closed with a 5xx, not treat the user as
// unauthenticated.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Principal, *session.Session, error) {
	if token == "" {
		return nil, nil, ErrUnauthenticated
	}

	sess, err := m.sessions.Get(ctx, token)
	if err != nil {
		if storage.IsNotFound(err) || errors.Is(err, session.ErrExpired) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}

	p, err := m.users.ByID(ctx, sess.UserID)
	if err != nil {
		if storage.IsNotFound(err) {
			// Principal deleted out from under the session.
			_ = m.sessions.Delete(ctx, token)
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}

	if err := m.sessions.Touch(ctx, sess); err != nil {
		return nil, nil, err
	}
	return p, sess, nil
}
