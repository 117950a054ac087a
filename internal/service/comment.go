package service

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

type CommentService struct {
	store  repository.Store
	access *Access
	logger *zap.Logger
}

func NewCommentService(store repository.Store, access *Access, logger *zap.Logger) *CommentService {
	return &CommentService{store: store, access: access, logger: logger}
}

func (s *CommentService) ListByTask(ctx context.Context, callerID, taskID int) ([]model.Comment, error) {
	_, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.store.CommentsByTask(ctx, taskID)
}

// Create returns the comment joined with its author so the client can
// render name and avatar without a follow-up fetch.
func (s *CommentService) Create(ctx context.Context, callerID, taskID int, content string) (*model.Comment, error) {
	_, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	c := &model.Comment{Content: content, TaskID: taskID, UserID: callerID}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	author, err := s.store.User(ctx, callerID)
	if err != nil {
		return nil, err
	}
	c.Author = author
	return c, nil
}

// Delete is allowed for the comment's author or a team admin.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID int) error {
	c, err := s.store.Comment(ctx, commentID)
	if err != nil {
		return err
	}
	_, teamID, err := s.access.taskTeam(ctx, c.TaskID)
	if err != nil {
		return err
	}
	if c.UserID != callerID {
		if err := s.access.RequireAdmin(ctx, teamID, callerID); err != nil {
			return err
		}
	} else if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	s.logger.Info("Comment deleted", zap.Int("comment_id", commentID), zap.Int("deleted_by", callerID))
	return nil
}
