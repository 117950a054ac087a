package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

func (s *Store) CreateTeam(ctx context.Context, t *model.Team) error {
	// Team row and the creator's admin membership succeed or fail together.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO teams (name, description, created_by)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, t.Name, t.Description, t.CreatedBy).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert team", zap.Error(err), zap.String("name", t.Name))
		return translate(err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO team_members (team_id, user_id, role)
        VALUES ($1, $2, $3)
    `, t.ID, t.CreatedBy, model.RoleAdmin)
	if err != nil {
		s.logger.Error("Failed to insert creator membership", zap.Error(err), zap.Int("team_id", t.ID))
		return translate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Info("Team created", zap.Int("team_id", t.ID), zap.Int("created_by", t.CreatedBy))
	return nil
}

func (s *Store) Team(ctx context.Context, id int) (*model.Team, error) {
	var t model.Team
	err := s.db.QueryRow(ctx, `
        SELECT id, name, description, created_by, created_at
        FROM teams WHERE id = $1
    `, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) TeamsByUser(ctx context.Context, userID int) ([]model.Team, error) {
	rows, err := s.db.Query(ctx, `
        SELECT t.id, t.name, t.description, t.created_by, t.created_at
        FROM teams t
        JOIN team_members tm ON tm.team_id = t.id
        WHERE tm.user_id = $1
        ORDER BY t.id
    `, userID)
	if err != nil {
		s.logger.Error("Failed to query teams", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *Store) UpdateTeam(ctx context.Context, id int, p repository.TeamPatch) (*model.Team, error) {
	var t model.Team
	err := s.db.QueryRow(ctx, `
        UPDATE teams SET
            name = COALESCE($2, name),
            description = COALESCE($3, description)
        WHERE id = $1
        RETURNING id, name, description, created_by, created_at
    `, id, p.Name, p.Description).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) DeleteTeam(ctx context.Context, id int) (bool, error) {
	// Memberships, projects, tasks, comments, files and messages go with
	// the team through the schema's cascade rules.
	tag, err := s.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete team", zap.Error(err), zap.Int("team_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AddTeamMember(ctx context.Context, m *model.TeamMember) error {
	err := s.db.QueryRow(ctx, `
        INSERT INTO team_members (team_id, user_id, role)
        VALUES ($1, $2, $3)
        RETURNING id
    `, m.TeamID, m.UserID, m.Role).Scan(&m.ID)
	if err != nil {
		s.logger.Error("Failed to add team member",
			zap.Error(err),
			zap.Int("team_id", m.TeamID),
			zap.Int("user_id", m.UserID),
		)
		return translate(err)
	}
	return nil
}

func (s *Store) TeamMembers(ctx context.Context, teamID int) ([]model.TeamMember, error) {
	rows, err := s.db.Query(ctx, `
        SELECT tm.id, tm.team_id, tm.user_id, tm.role,
               u.id, u.username, u.email, u.full_name, u.avatar, u.role, u.created_at
        FROM team_members tm
        LEFT JOIN users u ON u.id = tm.user_id
        WHERE tm.team_id = $1
        ORDER BY tm.id
    `, teamID)
	if err != nil {
		s.logger.Error("Failed to query team members", zap.Error(err), zap.Int("team_id", teamID))
		return nil, err
	}
	defer rows.Close()

	members := []model.TeamMember{}
	for rows.Next() {
		var m model.TeamMember
		var (
			userID                            *int
			username, email, fullName, avatar *string
			userRole                          *string
			createdAt                         *time.Time
		)
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role,
			&userID, &username, &email, &fullName, &avatar, &userRole, &createdAt); err != nil {
			return nil, err
		}
		if userID == nil {
			// A membership pointing at a missing user is a data bug,
			// not an ordinary not-found.
			s.logger.Error("Team member references missing user",
				zap.Int("team_id", teamID),
				zap.Int("user_id", m.UserID),
			)
			return nil, repository.ErrIntegrity
		}
		m.User = &model.User{
			ID:        *userID,
			Username:  *username,
			Email:     *email,
			FullName:  *fullName,
			Avatar:    *avatar,
			Role:      *userRole,
			CreatedAt: *createdAt,
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) TeamMember(ctx context.Context, teamID, userID int) (*model.TeamMember, error) {
	var m model.TeamMember
	err := s.db.QueryRow(ctx, `
        SELECT id, team_id, user_id, role
        FROM team_members
        WHERE team_id = $1 AND user_id = $2
    `, teamID, userID).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) RemoveTeamMember(ctx context.Context, teamID, userID int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
    `, teamID, userID)
	if err != nil {
		s.logger.Error("Failed to remove team member",
			zap.Error(err),
			zap.Int("team_id", teamID),
			zap.Int("user_id", userID),
		)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
