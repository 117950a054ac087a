// Package service implements the authorization-scoped business layer. Every
// read and write is gated on the caller's membership row for the owning
// team; privileged operations additionally require the admin role there.
package service

import (
	"context"
	"errors"
	"fmt"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/pkg/metrics"
)

// Access centralizes the membership and role checks so the rules live in
// one place instead of being repeated per handler.
type Access struct {
	store repository.Store
}

func NewAccess(store repository.Store) *Access {
	return &Access{store: store}
}

// Membership returns the caller's membership row for the team, or
// ErrForbidden when none exists.
func (a *Access) Membership(ctx context.Context, teamID, userID int) (*model.TeamMember, error) {
	m, err := a.store.TeamMember(ctx, teamID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.IncrementAuthorizationDenied("membership")
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("membership lookup: %w", err)
	}
	return m, nil
}

// RequireMember passes for any role on the team.
func (a *Access) RequireMember(ctx context.Context, teamID, userID int) error {
	_, err := a.Membership(ctx, teamID, userID)
	return err
}

// RequireAdmin passes only for team admins.
func (a *Access) RequireAdmin(ctx context.Context, teamID, userID int) error {
	m, err := a.Membership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if m.Role != model.RoleAdmin {
		metrics.IncrementAuthorizationDenied("role")
		return ErrForbidden
	}
	return nil
}

// RequireSelfOrAdmin passes when the caller acts on their own behalf or
// holds the admin role on the team.
func (a *Access) RequireSelfOrAdmin(ctx context.Context, teamID, userID, subjectID int) error {
	if userID == subjectID {
		return a.RequireMember(ctx, teamID, userID)
	}
	return a.RequireAdmin(ctx, teamID, userID)
}

// taskTeam resolves a task to its owning team for scoping.
func (a *Access) taskTeam(ctx context.Context, taskID int) (*model.Task, int, error) {
	task, err := a.store.Task(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}
	project, err := a.store.Project(ctx, task.ProjectID)
	if err != nil {
		return nil, 0, err
	}
	return task, project.TeamID, nil
}
