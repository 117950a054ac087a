package postgres

import (
	"context"

	"go.uber.org/zap"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const userColumns = `id, username, email, password_hash, full_name, avatar, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Avatar, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (username, email, password_hash, full_name, avatar, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := s.db.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Avatar, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert user", zap.Error(err), zap.String("username", u.Username))
		return translate(err)
	}
	return nil
}

func (s *Store) User(ctx context.Context, id int) (*model.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		s.logger.Error("Failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Avatar, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id int, p repository.UserPatch) (*model.User, error) {
	query := `
        UPDATE users SET
            username = COALESCE($2, username),
            email = COALESCE($3, email),
            password_hash = COALESCE($4, password_hash),
            full_name = COALESCE($5, full_name),
            avatar = COALESCE($6, avatar),
            role = COALESCE($7, role)
        WHERE id = $1
        RETURNING ` + userColumns
	u, err := scanUser(s.db.QueryRow(ctx, query, id,
		p.Username, p.Email, p.PasswordHash, p.FullName, p.Avatar, p.Role))
	if err != nil {
		s.logger.Error("Failed to update user", zap.Error(err), zap.Int("user_id", id))
		return nil, err
	}
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) (bool, error) {
	// Memberships are removed in the same transaction so no membership row
	// is ever left pointing at a deleted user.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1`, id); err != nil {
		s.logger.Error("Failed to delete user memberships", zap.Error(err), zap.Int("user_id", id))
		return false, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err), zap.Int("user_id", id))
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
