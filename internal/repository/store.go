// Package repository defines the storage contract shared by the in-memory
// and PostgreSQL implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"teamboard/internal/model"
)

var (
	// ErrNotFound is returned when no row matches the given id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on unique-constraint violations
	// (username, email, team membership).
	ErrDuplicate = errors.New("duplicate")
	// ErrIntegrity signals an internal consistency failure, such as a
	// team member row referencing a user that no longer exists.
	ErrIntegrity = errors.New("data integrity violation")
)

// Patch types carry partial updates. A nil field is left unchanged.

type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	FullName     *string
	Avatar       *string
	Role         *string
}

type TeamPatch struct {
	Name        *string
	Description *string
}

type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string
	StartDate   *time.Time
	DueDate     *time.Time
}

type TaskPatch struct {
	Title       *string
	Description *string
	AssigneeID  *int
	Status      *string
	Priority    *string
	DueDate     *time.Time
	Tags        *[]string
	Order       *int
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	User(ctx context.Context, id int) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int, p UserPatch) (*model.User, error)
	// DeleteUser removes the user's team memberships before the user row.
	DeleteUser(ctx context.Context, id int) (bool, error)
}

type TeamStore interface {
	// CreateTeam inserts the team and an admin membership for its creator
	// as one logical operation.
	CreateTeam(ctx context.Context, t *model.Team) error
	Team(ctx context.Context, id int) (*model.Team, error)
	TeamsByUser(ctx context.Context, userID int) ([]model.Team, error)
	UpdateTeam(ctx context.Context, id int, p TeamPatch) (*model.Team, error)
	// DeleteTeam cascades to the team's memberships, projects, tasks,
	// comments, files and messages.
	DeleteTeam(ctx context.Context, id int) (bool, error)
}

type TeamMemberStore interface {
	AddTeamMember(ctx context.Context, m *model.TeamMember) error
	// TeamMembers returns memberships joined with their user record and
	// fails with ErrIntegrity when a membership references a missing user.
	TeamMembers(ctx context.Context, teamID int) ([]model.TeamMember, error)
	TeamMember(ctx context.Context, teamID, userID int) (*model.TeamMember, error)
	RemoveTeamMember(ctx context.Context, teamID, userID int) (bool, error)
}

type ProjectStore interface {
	CreateProject(ctx context.Context, p *model.Project) error
	Project(ctx context.Context, id int) (*model.Project, error)
	ProjectsByTeam(ctx context.Context, teamID int) ([]model.Project, error)
	UpdateProject(ctx context.Context, id int, p ProjectPatch) (*model.Project, error)
	DeleteProject(ctx context.Context, id int) (bool, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *model.Task) error
	Task(ctx context.Context, id int) (*model.Task, error)
	// TasksByProject orders ascending by kanban position, ties by id.
	TasksByProject(ctx context.Context, projectID int) ([]model.Task, error)
	TasksByAssignee(ctx context.Context, assigneeID int) ([]model.Task, error)
	UpdateTask(ctx context.Context, id int, p TaskPatch) (*model.Task, error)
	// SetTaskPosition updates status and position in a single write,
	// leaving every other field untouched.
	SetTaskPosition(ctx context.Context, id int, status string, order int) (*model.Task, error)
	DeleteTask(ctx context.Context, id int) (bool, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	Comment(ctx context.Context, id int) (*model.Comment, error)
	// CommentsByTask returns newest first, joined with the author.
	CommentsByTask(ctx context.Context, taskID int) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id int) (bool, error)
}

type FileStore interface {
	CreateFile(ctx context.Context, f *model.File) error
	File(ctx context.Context, id int) (*model.File, error)
	// File listings return newest first, joined with the uploader.
	FilesByProject(ctx context.Context, projectID int) ([]model.File, error)
	FilesByTask(ctx context.Context, taskID int) ([]model.File, error)
	DeleteFile(ctx context.Context, id int) (bool, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m *model.Message) error
	Message(ctx context.Context, id int) (*model.Message, error)
	// MessagesByTeam returns newest first, joined with the author.
	MessagesByTeam(ctx context.Context, teamID int) ([]model.Message, error)
	DeleteMessage(ctx context.Context, id int) (bool, error)
}

// Store is the full storage contract the service layer depends on.
type Store interface {
	UserStore
	TeamStore
	TeamMemberStore
	ProjectStore
	TaskStore
	CommentStore
	FileStore
	MessageStore
}
