// Package pgstore persists principals in PostgreSQL via a pgx connection
// pool. The users table is managed by the embedded goose migrations in
// internal/database/pg.
package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// Store implements auth.UserStore on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Postgres-backed principal store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts the principal, mapping duplicate emails to ErrEmailTaken.
func (s *Store) Create(ctx context.Context, p *auth.Principal) error {
	const q = `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, q, p.ID, p.Email, p.Name, p.PasswordHash, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrEmailTaken
		}
		return errors.Join(storage.ErrUnavailable, err)
	}
	return nil
}

// ByEmail returns the principal registered under email.
func (s *Store) ByEmail(ctx context.Context, email string) (*auth.Principal, error) {
	const q = `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE email = $1`
	return s.scanOne(s.pool.QueryRow(ctx, q, email))
}

// ByID returns the principal with the given id.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*auth.Principal, error) {
	const q = `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE id = $1`
	return s.scanOne(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) scanOne(row pgx.Row) (*auth.Principal, error) {
	var p auth.Principal
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Join(storage.ErrUnavailable, err)
	}
	return &p, nil
}

var _ auth.UserStore = (*Store)(nil)
