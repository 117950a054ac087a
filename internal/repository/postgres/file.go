package postgres

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
)

func (s *Store) CreateFile(ctx context.Context, f *model.File) error {
	err := s.db.QueryRow(ctx, `
        INSERT INTO files (name, url, size, type, project_id, task_id, uploaded_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, uploaded_at
    `, f.Name, f.URL, f.Size, f.Type, f.ProjectID, f.TaskID, f.UploadedBy).Scan(&f.ID, &f.UploadedAt)
	if err != nil {
		s.logger.Error("Failed to insert file", zap.Error(err), zap.Int("project_id", f.ProjectID))
		return translate(err)
	}
	return nil
}

func (s *Store) File(ctx context.Context, id int) (*model.File, error) {
	var f model.File
	err := s.db.QueryRow(ctx, `
        SELECT id, name, url, size, type, project_id, task_id, uploaded_by, uploaded_at
        FROM files WHERE id = $1
    `, id).Scan(&f.ID, &f.Name, &f.URL, &f.Size, &f.Type, &f.ProjectID, &f.TaskID, &f.UploadedBy, &f.UploadedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *Store) FilesByProject(ctx context.Context, projectID int) ([]model.File, error) {
	return s.queryFiles(ctx, `WHERE f.project_id = $1`, projectID)
}

func (s *Store) FilesByTask(ctx context.Context, taskID int) ([]model.File, error) {
	return s.queryFiles(ctx, `WHERE f.task_id = $1`, taskID)
}

func (s *Store) queryFiles(ctx context.Context, where string, arg any) ([]model.File, error) {
	rows, err := s.db.Query(ctx, `
        SELECT f.id, f.name, f.url, f.size, f.type, f.project_id, f.task_id, f.uploaded_by, f.uploaded_at,
               u.id, u.username, u.email, u.full_name, u.avatar, u.role, u.created_at
        FROM files f
        JOIN users u ON u.id = f.uploaded_by
        `+where+`
        ORDER BY f.uploaded_at DESC, f.id DESC
    `, arg)
	if err != nil {
		s.logger.Error("Failed to query files", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var f model.File
		var u model.User
		if err := rows.Scan(&f.ID, &f.Name, &f.URL, &f.Size, &f.Type, &f.ProjectID, &f.TaskID, &f.UploadedBy, &f.UploadedAt,
			&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		f.Uploader = &u
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *Store) DeleteFile(ctx context.Context, id int) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete file", zap.Error(err), zap.Int("file_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
