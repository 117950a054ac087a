package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

type FileInput struct {
	Name      string
	URL       string
	Size      int64
	Type      string
	ProjectID int
	TaskID    *int
}

type FileService struct {
	store  repository.Store
	access *Access
	logger *zap.Logger
}

func NewFileService(store repository.Store, access *Access, logger *zap.Logger) *FileService {
	return &FileService{store: store, access: access, logger: logger}
}

// Upload records file metadata. There is no storage engine behind it; when
// the client does not supply a URL a placeholder location is assigned.
func (s *FileService) Upload(ctx context.Context, callerID int, in FileInput) (*model.File, error) {
	p, err := s.store.Project(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, p.TeamID, callerID); err != nil {
		return nil, err
	}
	if in.TaskID != nil {
		task, err := s.store.Task(ctx, *in.TaskID)
		if err != nil {
			return nil, err
		}
		if task.ProjectID != in.ProjectID {
			return nil, invalidField("taskId", "task does not belong to the project")
		}
	}
	url := in.URL
	if url == "" {
		url = fmt.Sprintf("/files/%s/%s", uuid.NewString(), in.Name)
	}
	f := &model.File{
		Name:       in.Name,
		URL:        url,
		Size:       in.Size,
		Type:       in.Type,
		ProjectID:  in.ProjectID,
		TaskID:     in.TaskID,
		UploadedBy: callerID,
	}
	if err := s.store.CreateFile(ctx, f); err != nil {
		return nil, err
	}
	uploader, err := s.store.User(ctx, callerID)
	if err != nil {
		return nil, err
	}
	f.Uploader = uploader
	return f, nil
}

func (s *FileService) ListByProject(ctx context.Context, callerID, projectID int) ([]model.File, error) {
	p, err := s.store.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, p.TeamID, callerID); err != nil {
		return nil, err
	}
	return s.store.FilesByProject(ctx, projectID)
}

func (s *FileService) ListByTask(ctx context.Context, callerID, taskID int) ([]model.File, error) {
	_, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.store.FilesByTask(ctx, taskID)
}

// Delete is allowed for the uploader or a team admin.
func (s *FileService) Delete(ctx context.Context, callerID, fileID int) error {
	f, err := s.store.File(ctx, fileID)
	if err != nil {
		return err
	}
	p, err := s.store.Project(ctx, f.ProjectID)
	if err != nil {
		return err
	}
	if f.UploadedBy != callerID {
		if err := s.access.RequireAdmin(ctx, p.TeamID, callerID); err != nil {
			return err
		}
	} else if err := s.access.RequireMember(ctx, p.TeamID, callerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteFile(ctx, fileID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	s.logger.Info("File deleted", zap.Int("file_id", fileID), zap.Int("deleted_by", callerID))
	return nil
}
