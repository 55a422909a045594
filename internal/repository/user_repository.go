package repository

import (
	"context"
	"errors"
	"fmt"

	"go-gin-airport/internal/model"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int) (*model.User, error)

	// Transaction methods
	// Upsert records the caller's identity so orders can reference it.
	Upsert(ctx context.Context, tx pgx.Tx, user *model.User) (*model.User, error)
}

type UserRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryImpl{
		pool: pool,
	}
}

func (r *UserRepositoryImpl) Upsert(ctx context.Context, tx pgx.Tx, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, username, is_staff)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    is_staff = EXCLUDED.is_staff,
		    updated_at = NOW()
		RETURNING id, username, is_staff, created_at, updated_at
	`

	var saved model.User
	err := tx.QueryRow(ctx, query, user.ID, user.Username, user.IsStaff).Scan(
		&saved.ID,
		&saved.Username,
		&saved.IsStaff,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &saved, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `
		SELECT id, username, is_staff, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.IsStaff,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
