package service

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/pkg/metrics"
)

type TeamService struct {
	store  repository.Store
	access *Access
	logger *zap.Logger
}

func NewTeamService(store repository.Store, access *Access, logger *zap.Logger) *TeamService {
	return &TeamService{store: store, access: access, logger: logger}
}

// Create makes a team and grants the creator the admin role on it.
func (s *TeamService) Create(ctx context.Context, callerID int, name, description string) (*model.Team, error) {
	t := &model.Team{
		Name:        name,
		Description: description,
		CreatedBy:   callerID,
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, err
	}
	metrics.IncrementEntityWrite("team", "create")
	return t, nil
}

func (s *TeamService) List(ctx context.Context, callerID int) ([]model.Team, error) {
	return s.store.TeamsByUser(ctx, callerID)
}

func (s *TeamService) Get(ctx context.Context, callerID, teamID int) (*model.Team, error) {
	t, err := s.store.Team(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeamService) Update(ctx context.Context, callerID, teamID int, p repository.TeamPatch) (*model.Team, error) {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.store.UpdateTeam(ctx, teamID, p)
}

func (s *TeamService) Delete(ctx context.Context, callerID, teamID int) error {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return err
	}
	if err := s.access.RequireAdmin(ctx, teamID, callerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	metrics.IncrementEntityWrite("team", "delete")
	s.logger.Info("Team deleted", zap.Int("team_id", teamID), zap.Int("deleted_by", callerID))
	return nil
}

func (s *TeamService) Members(ctx context.Context, callerID, teamID int) ([]model.TeamMember, error) {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.store.TeamMembers(ctx, teamID)
}

// AddMember grants a user a role on the team. Team admins only.
func (s *TeamService) AddMember(ctx context.Context, callerID, teamID, userID int, role string) (*model.TeamMember, error) {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.access.RequireAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleMember
	}
	if !model.ValidRole(role) {
		return nil, invalidField("role", "must be admin, member or guest")
	}
	u, err := s.store.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := &model.TeamMember{TeamID: teamID, UserID: userID, Role: role}
	if err := s.store.AddTeamMember(ctx, m); err != nil {
		return nil, err
	}
	m.User = u
	return m, nil
}

// RemoveMember is allowed for team admins, or for members removing themselves.
func (s *TeamService) RemoveMember(ctx context.Context, callerID, teamID, userID int) error {
	if _, err := s.store.Team(ctx, teamID); err != nil {
		return err
	}
	if err := s.access.RequireSelfOrAdmin(ctx, teamID, callerID, userID); err != nil {
		return err
	}
	removed, err := s.store.RemoveTeamMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return repository.ErrNotFound
	}
	return nil
}
