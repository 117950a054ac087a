package postgres

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const taskColumns = `id, title, description, project_id, assignee_id, status, priority, due_date, tags, position, created_at`

func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssigneeID,
		&t.Status, &t.Priority, &t.DueDate, &t.Tags, &t.Order, &t.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *model.Task) error {
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	err := s.db.QueryRow(ctx, `
        INSERT INTO tasks (title, description, project_id, assignee_id, status, priority, due_date, tags, position)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at
    `, t.Title, t.Description, t.ProjectID, t.AssigneeID, t.Status, t.Priority, t.DueDate, t.Tags, t.Order).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert task", zap.Error(err), zap.Int("project_id", t.ProjectID))
		return translate(err)
	}
	return nil
}

func (s *Store) Task(ctx context.Context, id int) (*model.Task, error) {
	return scanTask(s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (s *Store) TasksByProject(ctx context.Context, projectID int) ([]model.Task, error) {
	// Position ties are possible under concurrent moves; the id tie-break
	// keeps the column rendering stable.
	return s.queryTasks(ctx, `
        SELECT `+taskColumns+` FROM tasks
        WHERE project_id = $1
        ORDER BY position, id
    `, projectID)
}

func (s *Store) TasksByAssignee(ctx context.Context, assigneeID int) ([]model.Task, error) {
	return s.queryTasks(ctx, `
        SELECT `+taskColumns+` FROM tasks
        WHERE assignee_id = $1
        ORDER BY id
    `, assigneeID)
}

func (s *Store) queryTasks(ctx context.Context, query string, arg any) ([]model.Task, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		s.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssigneeID,
			&t.Status, &t.Priority, &t.DueDate, &t.Tags, &t.Order, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, id int, p repository.TaskPatch) (*model.Task, error) {
	t, err := scanTask(s.db.QueryRow(ctx, `
        UPDATE tasks SET
            title = COALESCE($2, title),
            description = COALESCE($3, description),
            assignee_id = COALESCE($4, assignee_id),
            status = COALESCE($5, status),
            priority = COALESCE($6, priority),
            due_date = COALESCE($7, due_date),
            tags = COALESCE($8, tags),
            position = COALESCE($9, position)
        WHERE id = $1
        RETURNING `+taskColumns+`
    `, id, p.Title, p.Description, p.AssigneeID, p.Status, p.Priority, p.DueDate, p.Tags, p.Order))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) SetTaskPosition(ctx context.Context, id int, status string, order int) (*model.Task, error) {
	// Single UPDATE so no intermediate state is observable; sibling
	// positions are never renumbered server-side.
	return scanTask(s.db.QueryRow(ctx, `
        UPDATE tasks SET status = $2, position = $3
        WHERE id = $1
        RETURNING `+taskColumns+`
    `, id, status, order))
}

func (s *Store) DeleteTask(ctx context.Context, id int) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
