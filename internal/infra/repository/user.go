package repository

import (
	"context"

	"slotlink/internal/infra"
	"slotlink/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbx db.Executor, userID uuid.UUID) error {
	const query = `UPDATE users SET last_login_at = now(), updated_at = now() WHERE id = $1`

	if _, err := dbx.Exec(ctx, query, userID); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

func (r *UserRepository) Create(ctx context.Context, dbx db.Executor, params CreateUserParams) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id uuid.UUID
	err := dbx.QueryRow(ctx, query, params.Email, params.PasswordHash, params.Name, params.Role).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}
