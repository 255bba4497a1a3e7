package store

import (
	"context"

	"github.com/rentfleet/apiserver/internal/db"
	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rentfleet/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	gw *db.Gateway
}

func NewUserRepository(gw *db.Gateway) *UserRepository {
	return &UserRepository{gw: gw}
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (username, role, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	res, err := r.gw.Insert(ctx, query, user.Username, user.Role, user.Email, user.PasswordHash)
	if err != nil {
		return types.User{}, err
	}
	user.ID = res.InsertID
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, role, email, password
		FROM users
		WHERE username = $1`
	rows, err := r.gw.Query(ctx, query, username)
	if err != nil {
		return types.User{}, err
	}
	if len(rows) == 0 {
		return types.User{}, ErrNotFound
	}

	row := rows[0]
	id, err := rowInt64(row, "id")
	if err != nil {
		return types.User{}, errs.Database("users.get", err)
	}
	return types.User{
		ID:           id,
		Username:     rowString(row, "username"),
		Role:         rowString(row, "role"),
		Email:        rowString(row, "email"),
		PasswordHash: rowString(row, "password"),
	}, nil
}
