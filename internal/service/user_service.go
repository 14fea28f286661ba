package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quirknotes/internal/auth"
	"quirknotes/internal/domain"
	"quirknotes/internal/repository"
)

// TokenIssuer signs session tokens for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// UserService describes registration and login. Both return a fresh session token.
type UserService interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Exists(ctx context.Context, username string) (bool, error)
}

type userService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *userService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password both needed to register", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	// the store's unique key decides concurrent registrations of one name
	if err := s.users.Create(ctx, &domain.User{Username: username, PasswordHash: hash}); err != nil {
		return "", err
	}

	return s.tokens.Issue(username)
}

func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password both needed to login", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrAuthFailed
		}
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", domain.ErrAuthFailed
	}

	return s.tokens.Issue(user.Username)
}

func (s *userService) Exists(ctx context.Context, username string) (bool, error) {
	return s.users.Exists(ctx, strings.TrimSpace(username))
}
