package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrivision/backend/internal/core/domain"
)

// UserRepo implements ports.UserRepository with pgx.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.CreatedAt)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx, `
		SELECT id, email, COALESCE(name, ''), password_hash, role, created_at
		FROM users WHERE email = $1
	`, email))
}

// GetByID returns a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx, `
		SELECT id, email, COALESCE(name, ''), password_hash, role, created_at
		FROM users WHERE id = $1
	`, id))
}
