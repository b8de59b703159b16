// Package redisstore persists sessions in Redis, one JSON value per token
// with a native TTL. Redis evicts expired keys itself, so the sweeper is a
// no-op for this backend.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartflow-systems/SFS-Backend/internal/session"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

const keyPrefix = "session:"

// Store implements session.Store on Redis.
type Store struct {
	client *redis.Client
}

// New creates a Redis-backed session store.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns the session for token, or storage.ErrNotFound once the key
// has expired or never existed.
func (s *Store) Get(ctx context.Context, token string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Join(storage.ErrUnavailable, err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("redisstore: decode session: %w", err)
	}
	if sess.Data == nil {
		sess.Data = map[string]string{}
	}
	return &sess, nil
}

// Put stores the session with a TTL matching its expiry. Already-expired
// sessions are not written.
func (s *Store) Put(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redisstore: encode session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.Token, raw, ttl).Err(); err != nil {
		return errors.Join(storage.ErrUnavailable, err)
	}
	return nil
}

// Delete removes the session key. Absent keys are ignored.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.Join(storage.ErrUnavailable, err)
	}
	return nil
}

// SweepExpired is a no-op: Redis expires keys natively.
func (s *Store) SweepExpired(context.Context) (int64, error) {
	return 0, nil
}

var _ session.Store = (*Store)(nil)
