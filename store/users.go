package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"taskchat/models"
)

// PostgresUserStore implements UserStore on top of a *sql.DB.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgresUserStore creates a user store backed by Postgres.
func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresUserStore) Create(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, "SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1", email)
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, "SELECT id, email, name, password_hash, created_at FROM users WHERE id = $1", id)
}

func (s *PostgresUserStore) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
