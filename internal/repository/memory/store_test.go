package memory

import (
	"context"
	"errors"
	"testing"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

func seedUser(t *testing.T, s *Store, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FullName:     "Test " + username,
		Role:         model.RoleMember,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func seedTeam(t *testing.T, s *Store, creatorID int) *model.Team {
	t.Helper()
	team := &model.Team{Name: "Engineering", CreatedBy: creatorID}
	if err := s.CreateTeam(context.Background(), team); err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	return team
}

func seedProject(t *testing.T, s *Store, teamID int) *model.Project {
	t.Helper()
	p := &model.Project{Name: "Site Redesign", TeamID: teamID}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	a := seedUser(t, s, "alice")
	b := seedUser(t, s, "bob")

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := NewStore()
	seedUser(t, s, "alice")

	dup := &model.User{Username: "alice", Email: "other@example.com"}
	if err := s.CreateUser(context.Background(), dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate username: want ErrDuplicate, got %v", err)
	}
	dup = &model.User{Username: "other", Email: "alice@example.com"}
	if err := s.CreateUser(context.Background(), dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate email: want ErrDuplicate, got %v", err)
	}
}

func TestUserLookupsMissReturnNotFound(t *testing.T) {
	s := NewStore()
	if _, err := s.User(context.Background(), 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("User: want ErrNotFound, got %v", err)
	}
	if _, err := s.UserByUsername(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("UserByUsername: want ErrNotFound, got %v", err)
	}
}

func TestUpdateUserLeavesUnsetFieldsAlone(t *testing.T) {
	s := NewStore()
	u := seedUser(t, s, "alice")

	name := "Alice Liddell"
	got, err := s.UpdateUser(context.Background(), u.ID, repository.UserPatch{FullName: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.FullName != name {
		t.Fatalf("FullName = %q, want %q", got.FullName, name)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
}

func TestUpdateUserRejectsCollidingCredentials(t *testing.T) {
	s := NewStore()
	alice := seedUser(t, s, "alice")
	seedUser(t, s, "bob")

	username := "bob"
	if _, err := s.UpdateUser(context.Background(), alice.ID, repository.UserPatch{Username: &username}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("colliding username: want ErrDuplicate, got %v", err)
	}
	email := "bob@example.com"
	if _, err := s.UpdateUser(context.Background(), alice.ID, repository.UserPatch{Email: &email}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("colliding email: want ErrDuplicate, got %v", err)
	}

	// A failed patch leaves the row untouched.
	got, err := s.User(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("rejected patch partially applied: %+v", got)
	}

	// Re-submitting your own values is not a collision.
	own := "alice"
	if _, err := s.UpdateUser(context.Background(), alice.ID, repository.UserPatch{Username: &own}); err != nil {
		t.Fatalf("own username rejected: %v", err)
	}
}

func TestCreateTeamGrantsCreatorAdminMembership(t *testing.T) {
	s := NewStore()
	u := seedUser(t, s, "alice")
	team := seedTeam(t, s, u.ID)

	m, err := s.TeamMember(context.Background(), team.ID, u.ID)
	if err != nil {
		t.Fatalf("TeamMember: %v", err)
	}
	if m.Role != model.RoleAdmin {
		t.Fatalf("creator role = %q, want admin", m.Role)
	}
}

func TestAddTeamMemberRejectsDuplicateMembership(t *testing.T) {
	s := NewStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	team := seedTeam(t, s, alice.ID)

	m := &model.TeamMember{TeamID: team.ID, UserID: bob.ID, Role: model.RoleMember}
	if err := s.AddTeamMember(context.Background(), m); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	again := &model.TeamMember{TeamID: team.ID, UserID: bob.ID, Role: model.RoleGuest}
	if err := s.AddTeamMember(context.Background(), again); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestTeamMembersJoinsUsers(t *testing.T) {
	s := NewStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	team := seedTeam(t, s, alice.ID)
	if err := s.AddTeamMember(context.Background(), &model.TeamMember{TeamID: team.ID, UserID: bob.ID, Role: model.RoleGuest}); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}

	members, err := s.TeamMembers(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("TeamMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	for _, m := range members {
		if m.User == nil {
			t.Fatalf("member %d has no joined user", m.ID)
		}
		if m.User.PasswordHash == "" {
			t.Fatalf("joined user %d lost its hash copy", m.UserID)
		}
	}
}

func TestDeleteUserDropsMemberships(t *testing.T) {
	s := NewStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	team := seedTeam(t, s, alice.ID)
	if err := s.AddTeamMember(context.Background(), &model.TeamMember{TeamID: team.ID, UserID: bob.ID, Role: model.RoleMember}); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}

	deleted, err := s.DeleteUser(context.Background(), bob.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteUser = (%v, %v), want (true, nil)", deleted, err)
	}
	if _, err := s.TeamMember(context.Background(), team.ID, bob.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("membership survived user deletion: %v", err)
	}
	// Remaining members still resolve cleanly.
	if _, err := s.TeamMembers(context.Background(), team.ID); err != nil {
		t.Fatalf("TeamMembers after delete: %v", err)
	}
}

func TestDeleteTeamCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)

	task := &model.Task{Title: "Wireframes", ProjectID: project.ID}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	comment := &model.Comment{Content: "looks good", TaskID: task.ID, UserID: alice.ID}
	if err := s.CreateComment(ctx, comment); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	file := &model.File{Name: "mock.png", ProjectID: project.ID, UploadedBy: alice.ID}
	if err := s.CreateFile(ctx, file); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	msg := &model.Message{Content: "kickoff at 10", TeamID: team.ID, UserID: alice.ID}
	if err := s.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	deleted, err := s.DeleteTeam(ctx, team.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteTeam = (%v, %v), want (true, nil)", deleted, err)
	}

	checks := []struct {
		name string
		err  error
	}{
		{"team", func() error { _, err := s.Team(ctx, team.ID); return err }()},
		{"project", func() error { _, err := s.Project(ctx, project.ID); return err }()},
		{"task", func() error { _, err := s.Task(ctx, task.ID); return err }()},
		{"comment", func() error { _, err := s.Comment(ctx, comment.ID); return err }()},
		{"file", func() error { _, err := s.File(ctx, file.ID); return err }()},
		{"message", func() error { _, err := s.Message(ctx, msg.ID); return err }()},
		{"membership", func() error { _, err := s.TeamMember(ctx, team.ID, alice.ID); return err }()},
	}
	for _, c := range checks {
		if !errors.Is(c.err, repository.ErrNotFound) {
			t.Errorf("%s survived team deletion: %v", c.name, c.err)
		}
	}
}

func TestDeleteTaskDetachesFiles(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)

	task := &model.Task{Title: "Wireframes", ProjectID: project.ID}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	file := &model.File{Name: "mock.png", ProjectID: project.ID, TaskID: &task.ID, UploadedBy: alice.ID}
	if err := s.CreateFile(ctx, file); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	if _, err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	got, err := s.File(ctx, file.ID)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got.TaskID != nil {
		t.Fatalf("file still references deleted task %d", *got.TaskID)
	}
}

func TestCreateTaskAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)

	task := &model.Task{Title: "Wireframes", ProjectID: project.ID}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != model.StatusTodo {
		t.Errorf("Status = %q, want %q", task.Status, model.StatusTodo)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("Priority = %q, want %q", task.Priority, model.PriorityMedium)
	}
	if task.Tags == nil {
		t.Error("Tags should be an empty slice, not nil")
	}
}

func TestCreateProjectAppliesDefaultColor(t *testing.T) {
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	p := seedProject(t, s, team.ID)
	if p.Color != model.DefaultProjectColor {
		t.Fatalf("Color = %q, want %q", p.Color, model.DefaultProjectColor)
	}
}

func TestTasksByProjectOrdersByPositionThenID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)

	for _, order := range []int{2, 0, 2, 1} {
		task := &model.Task{Title: "t", ProjectID: project.ID, Order: order}
		if err := s.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	tasks, err := s.TasksByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("TasksByProject: %v", err)
	}
	wantIDs := []int{2, 4, 1, 3}
	if len(tasks) != len(wantIDs) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(wantIDs))
	}
	for i, id := range wantIDs {
		if tasks[i].ID != id {
			t.Fatalf("position %d: got task %d, want %d (order %d)", i, tasks[i].ID, id, tasks[i].Order)
		}
	}
}

func TestSetTaskPositionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)
	task := &model.Task{Title: "Wireframes", ProjectID: project.ID}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := s.SetTaskPosition(ctx, task.ID, model.StatusReview, 3)
		if err != nil {
			t.Fatalf("SetTaskPosition: %v", err)
		}
		if got.Status != model.StatusReview || got.Order != 3 {
			t.Fatalf("after move %d: status=%q order=%d", i, got.Status, got.Order)
		}
	}
}

func TestUpdateTaskCopiesTags(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)
	task := &model.Task{Title: "Wireframes", ProjectID: project.ID}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tags := []string{"design", "urgent"}
	if _, err := s.UpdateTask(ctx, task.ID, repository.TaskPatch{Tags: &tags}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	tags[0] = "mutated"

	got, err := s.Task(ctx, task.ID)
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if got.Tags[0] != "design" {
		t.Fatalf("stored tags aliased the caller's slice: %v", got.Tags)
	}
}

func TestCommentsByTaskNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)
	project := seedProject(t, s, team.ID)
	task := &model.Task{Title: "Wireframes", ProjectID: project.ID}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	for _, content := range []string{"first", "second", "third"} {
		c := &model.Comment{Content: content, TaskID: task.ID, UserID: alice.ID}
		if err := s.CreateComment(ctx, c); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	comments, err := s.CommentsByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CommentsByTask: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	// Same-instant timestamps fall back to descending id.
	for i, want := range []string{"third", "second", "first"} {
		if comments[i].Content != want {
			t.Fatalf("comments[%d] = %q, want %q", i, comments[i].Content, want)
		}
	}
	if comments[0].Author == nil || comments[0].Author.Username != "alice" {
		t.Fatalf("author not joined: %+v", comments[0].Author)
	}
}

func TestMessagesByTeamNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)

	for _, content := range []string{"one", "two"} {
		m := &model.Message{Content: content, TeamID: team.ID, UserID: alice.ID}
		if err := s.CreateMessage(ctx, m); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	msgs, err := s.MessagesByTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("MessagesByTeam: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "two" {
		t.Fatalf("unexpected order: %+v", msgs)
	}
}

func TestDeleteMissingRowsReportFalse(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for name, del := range map[string]func() (bool, error){
		"user":    func() (bool, error) { return s.DeleteUser(ctx, 9) },
		"team":    func() (bool, error) { return s.DeleteTeam(ctx, 9) },
		"project": func() (bool, error) { return s.DeleteProject(ctx, 9) },
		"task":    func() (bool, error) { return s.DeleteTask(ctx, 9) },
		"comment": func() (bool, error) { return s.DeleteComment(ctx, 9) },
		"file":    func() (bool, error) { return s.DeleteFile(ctx, 9) },
		"message": func() (bool, error) { return s.DeleteMessage(ctx, 9) },
	} {
		deleted, err := del()
		if err != nil || deleted {
			t.Errorf("delete missing %s = (%v, %v), want (false, nil)", name, deleted, err)
		}
	}
}

func TestTeamMembersReportsIntegrityOnOrphanedRow(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")
	team := seedTeam(t, s, alice.ID)

	// Orphan the membership by removing the user behind the store's back.
	s.mu.Lock()
	delete(s.users, alice.ID)
	s.mu.Unlock()

	if _, err := s.TeamMembers(ctx, team.ID); !errors.Is(err, repository.ErrIntegrity) {
		t.Fatalf("want ErrIntegrity, got %v", err)
	}
}

func TestReturnedCopiesDoNotAliasStoreState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice")

	got, err := s.User(ctx, alice.ID)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	got.Username = "mallory"

	again, err := s.User(ctx, alice.ID)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if again.Username != "alice" {
		t.Fatal("mutating a returned user leaked into the store")
	}
}
