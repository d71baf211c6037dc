package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	WorkerID     string
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, role, COALESCE(worker_id::text, '')
    FROM users
    WHERE lower(email) = lower($1)
  `, email)

	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.WorkerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
