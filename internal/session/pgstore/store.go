// Package pgstore persists sessions in PostgreSQL via a pgx connection pool.
// The sessions table is managed by the embedded goose migrations in
// internal/database/pg.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartflow-systems/SFS-Backend/internal/session"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

// Store implements session.Store on PostgreSQL. The pool is shared
// process-wide and safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Postgres-backed session store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the session for token. Expired rows are filtered in SQL so an
// expired-but-present record is indistinguishable from an absent one.
func (s *Store) Get(ctx context.Context, token string) (*session.Session, error) {
	const q = `
		SELECT token, user_id, data, created_at, last_seen_at, expires_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()`

	var (
		sess     session.Session
		userID   *uuid.UUID
		dataJSON []byte
	)
	err := s.pool.QueryRow(ctx, q, token).Scan(
		&sess.Token, &userID, &dataJSON,
		&sess.CreatedAt, &sess.LastSeenAt, &sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Join(storage.ErrUnavailable, err)
	}

	if userID != nil {
		sess.UserID = *userID
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &sess.Data); err != nil {
			return nil, fmt.Errorf("pgstore: decode session data: %w", err)
		}
	}
	if sess.Data == nil {
		sess.Data = map[string]string{}
	}
	return &sess, nil
}

// Put upserts the session row.
func (s *Store) Put(ctx context.Context, sess *session.Session) error {
	dataJSON, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("pgstore: encode session data: %w", err)
	}

	var userID *uuid.UUID
	if sess.UserID != uuid.Nil {
		uid := sess.UserID
		userID = &uid
	}

	const q = `
		INSERT INTO sessions (token, user_id, data, created_at, last_seen_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token) DO UPDATE SET
			user_id      = EXCLUDED.user_id,
			data         = EXCLUDED.data,
			last_seen_at = EXCLUDED.last_seen_at,
			expires_at   = EXCLUDED.expires_at`

	if _, err := s.pool.Exec(ctx, q, sess.Token, userID, dataJSON,
		sess.CreatedAt, sess.LastSeenAt, sess.ExpiresAt); err != nil {
		return errors.Join(storage.ErrUnavailable, err)
	}
	return nil
}

// Delete removes the session row. Deleting an absent token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return errors.Join(storage.ErrUnavailable, err)
	}
	return nil
}

// SweepExpired removes expired rows and returns the count removed.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, errors.Join(storage.ErrUnavailable, err)
	}
	return tag.RowsAffected(), nil
}

var _ session.Store = (*Store)(nil)
