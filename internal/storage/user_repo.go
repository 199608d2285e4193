package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultUsername is the single local user the CLI operates as. Identity
// resolution for multi-user deployments is an external concern.
const DefaultUsername = "adventurer"

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, created_at FROM users WHERE id = ?`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, created_at FROM users WHERE username = ?`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by username: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Insert(ctx context.Context, username, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, email) VALUES (?, ?)`, username, email)
	if err != nil {
		return 0, fmt.Errorf("user insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	return id, nil
}
