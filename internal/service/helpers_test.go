package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/internal/repository/memory"
	"teamboard/internal/session"
)

// env bundles the full service layer over the in-memory store, with a
// miniredis-backed session store, as main wires it.
type env struct {
	store    *memory.Store
	sessions *session.Store
	access   *Access
	auth     *AuthService
	teams    *TeamService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
	files    *FileService
	messages *MessageService
	users    *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := memory.NewStore()
	log := zap.NewNop()
	sessions := session.NewStore(rdb, time.Hour, log)
	access := NewAccess(store)
	return &env{
		store:    store,
		sessions: sessions,
		access:   access,
		auth:     NewAuthService(store, sessions, log),
		teams:    NewTeamService(store, access, log),
		projects: NewProjectService(store, access, log),
		tasks:    NewTaskService(store, access, log),
		comments: NewCommentService(store, access, log),
		files:    NewFileService(store, access, log),
		messages: NewMessageService(store, access, log),
		users:    NewUserService(store, log),
	}
}

func (e *env) user(t *testing.T, username, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
	}
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func (e *env) team(t *testing.T, creatorID int) *model.Team {
	t.Helper()
	team, err := e.teams.Create(context.Background(), creatorID, "Engineering", "the builders")
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return team
}

func (e *env) member(t *testing.T, teamID, userID int, role string) {
	t.Helper()
	if err := e.store.AddTeamMember(context.Background(), &model.TeamMember{TeamID: teamID, UserID: userID, Role: role}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func (e *env) project(t *testing.T, callerID, teamID int) *model.Project {
	t.Helper()
	p, err := e.projects.Create(context.Background(), callerID, ProjectInput{Name: "Site Redesign", TeamID: teamID})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func (e *env) task(t *testing.T, callerID, projectID int) *model.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), callerID, TaskInput{Title: "Wireframes", ProjectID: projectID})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func strPtr(s string) *string { return &s }

var _ repository.Store = (*memory.Store)(nil)
