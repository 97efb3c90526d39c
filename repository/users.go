package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/bookworm/data"
)

type users interface {
	GetUser(ctx context.Context, userID int64) (*data.User, error)
}

// GetUser retrieves the user a bearer token was issued for.
func (r *repository) GetUser(ctx context.Context, userID int64) (*data.User, error) {
	if userID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, created_at, username, profile_image
		FROM users
		WHERE id = $1`
	var user data.User
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Username,
		&user.ProfileImage,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}
