package postgres

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const projectColumns = `id, name, description, team_id, color, start_date, due_date, created_at`

func (s *Store) CreateProject(ctx context.Context, p *model.Project) error {
	if p.Color == "" {
		p.Color = model.DefaultProjectColor
	}
	err := s.db.QueryRow(ctx, `
        INSERT INTO projects (name, description, team_id, color, start_date, due_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `, p.Name, p.Description, p.TeamID, p.Color, p.StartDate, p.DueDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert project", zap.Error(err), zap.Int("team_id", p.TeamID))
		return translate(err)
	}
	return nil
}

func (s *Store) Project(ctx context.Context, id int) (*model.Project, error) {
	var p model.Project
	err := s.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.TeamID, &p.Color, &p.StartDate, &p.DueDate, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ProjectsByTeam(ctx context.Context, teamID int) ([]model.Project, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+projectColumns+` FROM projects WHERE team_id = $1 ORDER BY id
    `, teamID)
	if err != nil {
		s.logger.Error("Failed to query projects", zap.Error(err), zap.Int("team_id", teamID))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.TeamID, &p.Color, &p.StartDate, &p.DueDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, id int, p repository.ProjectPatch) (*model.Project, error) {
	var proj model.Project
	err := s.db.QueryRow(ctx, `
        UPDATE projects SET
            name = COALESCE($2, name),
            description = COALESCE($3, description),
            color = COALESCE($4, color),
            start_date = COALESCE($5, start_date),
            due_date = COALESCE($6, due_date)
        WHERE id = $1
        RETURNING `+projectColumns+`
    `, id, p.Name, p.Description, p.Color, p.StartDate, p.DueDate).
		Scan(&proj.ID, &proj.Name, &proj.Description, &proj.TeamID, &proj.Color, &proj.StartDate, &proj.DueDate, &proj.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &proj, nil
}

func (s *Store) DeleteProject(ctx context.Context, id int) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete project", zap.Error(err), zap.Int("project_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
