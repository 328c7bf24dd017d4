package service

import (
	"context"
	"errors"
	"strings"

	"github.com/vaishnavid04/Everwear/internal/auth"
	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/repository"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates the user and immediately issues a session token, so
// a fresh signup is already logged in.
func (s *AuthService) Register(ctx context.Context, user *domain.User, password string) (*domain.User, string, error) {
	user.Email = strings.ToLower(user.Email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = id

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies the password and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
