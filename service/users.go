package service

import (
	"context"

	"github.com/emzola/bookworm/data"
)

type users interface {
	GetUser(ctx context.Context, userID int64) (*data.User, error)
}

// GetUser service retrieves the user identified by a verified bearer token.
func (s *service) GetUser(ctx context.Context, userID int64) (*data.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}
