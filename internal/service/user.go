package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

type ProfileInput struct {
	Email    *string
	FullName *string
	Avatar   *string
}

// UserService covers account administration and self-service profile edits.
// The admin checks here use the user's global role, not a team role.
type UserService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewUserService(store repository.Store, logger *zap.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) requireGlobalAdmin(ctx context.Context, callerID int) error {
	caller, err := s.store.User(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *UserService) List(ctx context.Context, callerID int) ([]model.User, error) {
	if err := s.requireGlobalAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.store.Users(ctx)
}

// Delete removes a user account; the store drops the user's memberships
// first so no team ends up with a dangling member row.
func (s *UserService) Delete(ctx context.Context, callerID, userID int) error {
	if err := s.requireGlobalAdmin(ctx, callerID); err != nil {
		return err
	}
	if _, err := s.store.User(ctx, userID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	s.logger.Info("User deleted", zap.Int("user_id", userID), zap.Int("deleted_by", callerID))
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, callerID int, in ProfileInput) (*model.User, error) {
	if in.Email != nil {
		existing, err := s.store.UserByEmail(ctx, *in.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != callerID {
			return nil, ErrEmailTaken
		}
	}
	return s.store.UpdateUser(ctx, callerID, repository.UserPatch{
		Email:    in.Email,
		FullName: in.FullName,
		Avatar:   in.Avatar,
	})
}

func (s *UserService) UpdatePassword(ctx context.Context, callerID int, current, next string) error {
	u, err := s.store.User(ctx, callerID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)
	_, err = s.store.UpdateUser(ctx, callerID, repository.UserPatch{PasswordHash: &hashStr})
	return err
}
