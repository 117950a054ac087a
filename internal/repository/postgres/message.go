package postgres

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
)

func (s *Store) CreateMessage(ctx context.Context, m *model.Message) error {
	err := s.db.QueryRow(ctx, `
        INSERT INTO messages (content, team_id, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, m.Content, m.TeamID, m.UserID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert message", zap.Error(err), zap.Int("team_id", m.TeamID))
		return translate(err)
	}
	return nil
}

func (s *Store) Message(ctx context.Context, id int) (*model.Message, error) {
	var m model.Message
	err := s.db.QueryRow(ctx, `
        SELECT id, content, team_id, user_id, created_at
        FROM messages WHERE id = $1
    `, id).Scan(&m.ID, &m.Content, &m.TeamID, &m.UserID, &m.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) MessagesByTeam(ctx context.Context, teamID int) ([]model.Message, error) {
	rows, err := s.db.Query(ctx, `
        SELECT m.id, m.content, m.team_id, m.user_id, m.created_at,
               u.id, u.username, u.email, u.full_name, u.avatar, u.role, u.created_at
        FROM messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.team_id = $1
        ORDER BY m.created_at DESC, m.id DESC
    `, teamID)
	if err != nil {
		s.logger.Error("Failed to query messages", zap.Error(err), zap.Int("team_id", teamID))
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		var u model.User
		if err := rows.Scan(&m.ID, &m.Content, &m.TeamID, &m.UserID, &m.CreatedAt,
			&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		m.Author = &u
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) DeleteMessage(ctx context.Context, id int) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete message", zap.Error(err), zap.Int("message_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
