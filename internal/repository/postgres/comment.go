package postgres

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
)

func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	err := s.db.QueryRow(ctx, `
        INSERT INTO comments (content, task_id, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, c.Content, c.TaskID, c.UserID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert comment", zap.Error(err), zap.Int("task_id", c.TaskID))
		return translate(err)
	}
	return nil
}

func (s *Store) Comment(ctx context.Context, id int) (*model.Comment, error) {
	var c model.Comment
	err := s.db.QueryRow(ctx, `
        SELECT id, content, task_id, user_id, created_at
        FROM comments WHERE id = $1
    `, id).Scan(&c.ID, &c.Content, &c.TaskID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) CommentsByTask(ctx context.Context, taskID int) ([]model.Comment, error) {
	rows, err := s.db.Query(ctx, `
        SELECT c.id, c.content, c.task_id, c.user_id, c.created_at,
               u.id, u.username, u.email, u.full_name, u.avatar, u.role, u.created_at
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.task_id = $1
        ORDER BY c.created_at DESC, c.id DESC
    `, taskID)
	if err != nil {
		s.logger.Error("Failed to query comments", zap.Error(err), zap.Int("task_id", taskID))
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		var u model.User
		if err := rows.Scan(&c.ID, &c.Content, &c.TaskID, &c.UserID, &c.CreatedAt,
			&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		c.Author = &u
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) DeleteComment(ctx context.Context, id int) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete comment", zap.Error(err), zap.Int("comment_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
