package repository

import (
	"context"

	"quirknotes/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// Create must fail with domain.ErrConflict when the username is taken and
// GetByUsername with domain.ErrNotFound when it is absent.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}
