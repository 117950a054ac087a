package service

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

type MessageService struct {
	store  repository.Store
	access *Access
	logger *zap.Logger
}

func NewMessageService(store repository.Store, access *Access, logger *zap.Logger) *MessageService {
	return &MessageService{store: store, access: access, logger: logger}
}

func (s *MessageService) ListByTeam(ctx context.Context, callerID, teamID int) ([]model.Message, error) {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.store.MessagesByTeam(ctx, teamID)
}

func (s *MessageService) Create(ctx context.Context, callerID, teamID int, content string) (*model.Message, error) {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	m := &model.Message{Content: content, TeamID: teamID, UserID: callerID}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	author, err := s.store.User(ctx, callerID)
	if err != nil {
		return nil, err
	}
	m.Author = author
	return m, nil
}

// Delete is allowed for the message's author or a team admin.
func (s *MessageService) Delete(ctx context.Context, callerID, messageID int) error {
	m, err := s.store.Message(ctx, messageID)
	if err != nil {
		return err
	}
	if m.UserID != callerID {
		if err := s.access.RequireAdmin(ctx, m.TeamID, callerID); err != nil {
			return err
		}
	} else if err := s.access.RequireMember(ctx, m.TeamID, callerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	s.logger.Info("Message deleted", zap.Int("message_id", messageID), zap.Int("deleted_by", callerID))
	return nil
}
