package service

import (
	"context"
	"errors"
	"testing"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

func TestCreateTaskRequiresMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	bob := e.user(t, "bob", "member")
	team := e.team(t, alice.ID)
	project := e.project(t, alice.ID, team.ID)

	if _, err := e.tasks.Create(ctx, bob.ID, TaskInput{Title: "sneaky", ProjectID: project.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider create: want ErrForbidden, got %v", err)
	}

	e.member(t, team.ID, bob.ID, model.RoleMember)
	task, err := e.tasks.Create(ctx, bob.ID, TaskInput{Title: "Wireframes", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("member create: %v", err)
	}
	if task.Status != model.StatusTodo || task.Priority != model.PriorityMedium {
		t.Fatalf("defaults not applied: %+v", task)
	}
}

func TestCreateTaskValidatesStatusAndPriority(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	team := e.team(t, alice.ID)
	project := e.project(t, alice.ID, team.ID)

	var vErr *ValidationError
	_, err := e.tasks.Create(ctx, alice.ID, TaskInput{Title: "t", ProjectID: project.ID, Status: "done"})
	if !errors.As(err, &vErr) {
		t.Fatalf("bad status: want ValidationError, got %v", err)
	}
	_, err = e.tasks.Create(ctx, alice.ID, TaskInput{Title: "t", ProjectID: project.ID, Priority: "urgent"})
	if !errors.As(err, &vErr) {
		t.Fatalf("bad priority: want ValidationError, got %v", err)
	}
	// "in progress" is spelled with a space.
	if _, err := e.tasks.Create(ctx, alice.ID, TaskInput{Title: "t", ProjectID: project.ID, Status: "in progress"}); err != nil {
		t.Fatalf("in progress rejected: %v", err)
	}
}

func TestMoveTaskChangesColumnAndPosition(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	bob := e.user(t, "bob", "member")
	team := e.team(t, alice.ID)
	project := e.project(t, alice.ID, team.ID)
	task := e.task(t, alice.ID, project.ID)

	if _, err := e.tasks.Move(ctx, bob.ID, task.ID, model.StatusReview, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider move: want ErrForbidden, got %v", err)
	}
	if _, err := e.tasks.Move(ctx, alice.ID, task.ID, "archived", 0); err == nil {
		t.Fatal("invalid status accepted")
	}

	got, err := e.tasks.Move(ctx, alice.ID, task.ID, model.StatusReview, 2)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got.Status != model.StatusReview || got.Order != 2 {
		t.Fatalf("move not applied: status=%q order=%d", got.Status, got.Order)
	}

	// Replaying the same move is harmless.
	again, err := e.tasks.Move(ctx, alice.ID, task.ID, model.StatusReview, 2)
	if err != nil {
		t.Fatalf("replayed Move: %v", err)
	}
	if again.Status != got.Status || again.Order != got.Order {
		t.Fatalf("replay changed state: %+v", again)
	}
}

func TestListByAssigneeIsScopedToCallerTeams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	bob := e.user(t, "bob", "member")
	carol := e.user(t, "carol", "member")

	shared := e.team(t, alice.ID)
	e.member(t, shared.ID, bob.ID, model.RoleMember)
	e.member(t, shared.ID, carol.ID, model.RoleMember)
	sharedProject := e.project(t, alice.ID, shared.ID)

	private := e.team(t, alice.ID)
	privateProject := e.project(t, alice.ID, private.ID)

	// Carol is assigned one task in each team.
	if _, err := e.tasks.Create(ctx, alice.ID, TaskInput{Title: "visible", ProjectID: sharedProject.ID, AssigneeID: &carol.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.tasks.Create(ctx, alice.ID, TaskInput{Title: "hidden", ProjectID: privateProject.ID, AssigneeID: &carol.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := e.tasks.ListByAssignee(ctx, bob.ID, carol.ID)
	if err != nil {
		t.Fatalf("ListByAssignee: %v", err)
	}
	if len(got) != 1 || got[0].Title != "visible" {
		t.Fatalf("bob sees %+v, want only the shared-team task", got)
	}

	// Alice belongs to both teams and sees both.
	all, err := e.tasks.ListByAssignee(ctx, alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("ListByAssignee: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("alice sees %d tasks, want 2", len(all))
	}
}

func TestTaskUpdateRejectsInvalidPatchValues(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	team := e.team(t, alice.ID)
	project := e.project(t, alice.ID, team.ID)
	task := e.task(t, alice.ID, project.ID)

	bad := "blocked"
	var vErr *ValidationError
	if _, err := e.tasks.Update(ctx, alice.ID, task.ID, repository.TaskPatch{Status: &bad}); !errors.As(err, &vErr) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	title := "Wireframes v2"
	high := model.PriorityHigh
	got, err := e.tasks.Update(ctx, alice.ID, task.ID, repository.TaskPatch{Title: &title, Priority: &high})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != title || got.Priority != model.PriorityHigh {
		t.Fatalf("patch not applied: %+v", got)
	}
}

func TestCommentLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	bob := e.user(t, "bob", "member")
	carol := e.user(t, "carol", "member")
	team := e.team(t, alice.ID)
	e.member(t, team.ID, bob.ID, model.RoleMember)
	e.member(t, team.ID, carol.ID, model.RoleMember)
	project := e.project(t, alice.ID, team.ID)
	task := e.task(t, alice.ID, project.ID)

	c, err := e.comments.Create(ctx, bob.ID, task.ID, "nice work")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Author == nil || c.Author.ID != bob.ID {
		t.Fatalf("author not joined: %+v", c.Author)
	}

	if err := e.comments.Delete(ctx, carol.ID, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("peer delete: want ErrForbidden, got %v", err)
	}
	if err := e.comments.Delete(ctx, bob.ID, c.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	c2, err := e.comments.Create(ctx, bob.ID, task.ID, "second thoughts")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := e.comments.Delete(ctx, alice.ID, c2.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestProjectWritePermissions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	bob := e.user(t, "bob", "member")
	team := e.team(t, alice.ID)
	e.member(t, team.ID, bob.ID, model.RoleMember)

	// Any member may create projects.
	p, err := e.projects.Create(ctx, bob.ID, ProjectInput{Name: "Side Quest", TeamID: team.ID})
	if err != nil {
		t.Fatalf("member Create: %v", err)
	}
	if p.Color != model.DefaultProjectColor {
		t.Fatalf("default color not applied: %q", p.Color)
	}

	// Update and delete stay admin-only.
	if _, err := e.projects.Update(ctx, bob.ID, p.ID, repository.ProjectPatch{Name: strPtr("Renamed")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member Update: want ErrForbidden, got %v", err)
	}
	if err := e.projects.Delete(ctx, bob.ID, p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member Delete: want ErrForbidden, got %v", err)
	}
	if err := e.projects.Delete(ctx, alice.ID, p.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
}

func TestFileUploadBindsToProjectAndOptionalTask(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", "member")
	team := e.team(t, alice.ID)
	project := e.project(t, alice.ID, team.ID)
	other := e.project(t, alice.ID, team.ID)
	task := e.task(t, alice.ID, project.ID)

	// A task from another project is rejected.
	_, err := e.files.Upload(ctx, alice.ID, FileInput{Name: "mock.png", ProjectID: other.ID, TaskID: &task.ID})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("cross-project task: want ValidationError, got %v", err)
	}

	f, err := e.files.Upload(ctx, alice.ID, FileInput{Name: "mock.png", ProjectID: project.ID, TaskID: &task.ID})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if f.URL == "" {
		t.Fatal("placeholder URL not assigned")
	}
	if f.Uploader == nil || f.Uploader.ID != alice.ID {
		t.Fatalf("uploader not joined: %+v", f.Uploader)
	}

	byTask, err := e.files.ListByTask(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("ListByTask: %v", err)
	}
	if len(byTask) != 1 || byTask[0].ID != f.ID {
		t.Fatalf("ListByTask = %+v", byTask)
	}
}

func TestGlobalAdminUserManagement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	root := e.user(t, "root", model.RoleAdmin)
	alice := e.user(t, "alice", model.RoleMember)

	if _, err := e.users.List(ctx, alice.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member List: want ErrForbidden, got %v", err)
	}
	users, err := e.users.List(ctx, root.ID)
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}

	if err := e.users.Delete(ctx, alice.ID, root.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member Delete: want ErrForbidden, got %v", err)
	}
	if err := e.users.Delete(ctx, root.ID, alice.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
	if _, err := e.store.User(ctx, alice.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("user survived: %v", err)
	}
}
