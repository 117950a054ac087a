package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/internal/session"
)

const bcryptCost = 8

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Avatar   string
}

type AuthService struct {
	store    repository.Store
	sessions *session.Store
	logger   *zap.Logger
}

func NewAuthService(store repository.Store, sessions *session.Store, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, sessions: sessions, logger: logger}
}

// Register creates a user and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	if _, err := s.store.UserByUsername(ctx, in.Username); !errors.Is(err, repository.ErrNotFound) {
		if err != nil {
			return nil, "", err
		}
		return nil, "", ErrUsernameTaken
	}
	if _, err := s.store.UserByEmail(ctx, in.Email); !errors.Is(err, repository.ErrNotFound) {
		if err != nil {
			return nil, "", err
		}
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Avatar:       in.Avatar,
		Role:         model.RoleMember,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("User registered", zap.Int("user_id", u.ID), zap.String("username", u.Username))
	return u, token, nil
}

// Login verifies credentials and opens a session. Unknown username and
// wrong password report the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("User logged in", zap.Int("user_id", u.ID))
	return u, token, nil
}

// Logout destroys the session behind the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Me returns the caller's profile.
func (s *AuthService) Me(ctx context.Context, userID int) (*model.User, error) {
	return s.store.User(ctx, userID)
}
