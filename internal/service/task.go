package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/pkg/metrics"
)

type TaskInput struct {
	Title       string
	Description string
	ProjectID   int
	AssigneeID  *int
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
	Order       int
}

type TaskService struct {
	store  repository.Store
	access *Access
	logger *zap.Logger
}

func NewTaskService(store repository.Store, access *Access, logger *zap.Logger) *TaskService {
	return &TaskService{store: store, access: access, logger: logger}
}

// Create is open to any member of the owning team. Task edits are
// deliberately looser than project edits: moving cards around is everyday
// work, not an admin action.
func (s *TaskService) Create(ctx context.Context, callerID int, in TaskInput) (*model.Task, error) {
	p, err := s.store.Project(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, p.TeamID, callerID); err != nil {
		return nil, err
	}
	if in.Status != "" && !model.ValidStatus(in.Status) {
		return nil, invalidField("status", "must be todo, in progress, review or complete")
	}
	if in.Priority != "" && !model.ValidPriority(in.Priority) {
		return nil, invalidField("priority", "must be low, medium or high")
	}
	t := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		Order:       in.Order,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	metrics.IncrementEntityWrite("task", "create")
	return t, nil
}

func (s *TaskService) ListByProject(ctx context.Context, callerID, projectID int) ([]model.Task, error) {
	p, err := s.store.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, p.TeamID, callerID); err != nil {
		return nil, err
	}
	return s.store.TasksByProject(ctx, projectID)
}

// ListByAssignee returns the assignee's tasks, narrowed to teams the caller
// belongs to. Membership stays the sole visibility gate even for this view.
func (s *TaskService) ListByAssignee(ctx context.Context, callerID, assigneeID int) ([]model.Task, error) {
	tasks, err := s.store.TasksByAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	teamByProject := map[int]int{}
	visibleTeam := map[int]bool{}
	visible := []model.Task{}
	for _, t := range tasks {
		teamID, ok := teamByProject[t.ProjectID]
		if !ok {
			p, err := s.store.Project(ctx, t.ProjectID)
			if err != nil {
				return nil, err
			}
			teamID = p.TeamID
			teamByProject[t.ProjectID] = teamID
		}
		allowed, checked := visibleTeam[teamID]
		if !checked {
			err := s.access.RequireMember(ctx, teamID, callerID)
			if err != nil && !errors.Is(err, ErrForbidden) {
				return nil, err
			}
			allowed = err == nil
			visibleTeam[teamID] = allowed
		}
		if allowed {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (s *TaskService) Get(ctx context.Context, callerID, taskID int) (*model.Task, error) {
	task, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, callerID, taskID int, patch repository.TaskPatch) (*model.Task, error) {
	_, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return nil, invalidField("status", "must be todo, in progress, review or complete")
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return nil, invalidField("priority", "must be low, medium or high")
	}
	return s.store.UpdateTask(ctx, taskID, patch)
}

// Move sets the task's kanban column and position in a single write. The
// caller supplies the position; siblings are never renumbered here, so the
// operation is idempotent.
func (s *TaskService) Move(ctx context.Context, callerID, taskID int, status string, order int) (*model.Task, error) {
	if !model.ValidStatus(status) {
		return nil, invalidField("status", "must be todo, in progress, review or complete")
	}
	_, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	metrics.IncrementEntityWrite("task", "move")
	return s.store.SetTaskPosition(ctx, taskID, status, order)
}

func (s *TaskService) Delete(ctx context.Context, callerID, taskID int) error {
	_, teamID, err := s.access.taskTeam(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	metrics.IncrementEntityWrite("task", "delete")
	s.logger.Info("Task deleted", zap.Int("task_id", taskID), zap.Int("deleted_by", callerID))
	return nil
}
