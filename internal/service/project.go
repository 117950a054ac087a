package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/pkg/metrics"
)

type ProjectInput struct {
	Name        string
	Description string
	TeamID      int
	Color       string
	StartDate   time.Time
	DueDate     *time.Time
}

type ProjectService struct {
	store  repository.Store
	access *Access
	logger *zap.Logger
}

func NewProjectService(store repository.Store, access *Access, logger *zap.Logger) *ProjectService {
	return &ProjectService{store: store, access: access, logger: logger}
}

// Create is open to any member of the owning team.
func (s *ProjectService) Create(ctx context.Context, callerID int, in ProjectInput) (*model.Project, error) {
	if _, err := s.store.Team(ctx, in.TeamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, in.TeamID, callerID); err != nil {
		return nil, err
	}
	p := &model.Project{
		Name:        in.Name,
		Description: in.Description,
		TeamID:      in.TeamID,
		Color:       in.Color,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	metrics.IncrementEntityWrite("project", "create")
	return p, nil
}

func (s *ProjectService) ListByTeam(ctx context.Context, callerID, teamID int) ([]model.Project, error) {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.store.ProjectsByTeam(ctx, teamID)
}

func (s *ProjectService) Get(ctx context.Context, callerID, projectID int) (*model.Project, error) {
	p, err := s.store.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, p.TeamID, callerID); err != nil {
		return nil, err
	}
	return p, nil
}

// Update requires the admin role on the owning team.
func (s *ProjectService) Update(ctx context.Context, callerID, projectID int, patch repository.ProjectPatch) (*model.Project, error) {
	p, err := s.store.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireAdmin(ctx, p.TeamID, callerID); err != nil {
		return nil, err
	}
	return s.store.UpdateProject(ctx, projectID, patch)
}

// Delete requires the admin role on the owning team.
func (s *ProjectService) Delete(ctx context.Context, callerID, projectID int) error {
	p, err := s.store.Project(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.access.RequireAdmin(ctx, p.TeamID, callerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	metrics.IncrementEntityWrite("project", "delete")
	s.logger.Info("Project deleted", zap.Int("project_id", projectID), zap.Int("deleted_by", callerID))
	return nil
}
