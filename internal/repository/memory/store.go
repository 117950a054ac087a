// Package memory implements the repository contract with in-process maps
// and monotonic id counters. It backs the test suite and the demo mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"teamboard/internal/model"
	"teamboard/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users       map[int]*model.User
	teams       map[int]*model.Team
	members     map[int]*model.TeamMember
	projects    map[int]*model.Project
	tasks       map[int]*model.Task
	comments    map[int]*model.Comment
	files       map[int]*model.File
	messages    map[int]*model.Message
	userSeq     int
	teamSeq     int
	memberSeq   int
	projectSeq  int
	taskSeq     int
	commentSeq  int
	fileSeq     int
	messageSeq  int
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int]*model.User),
		teams:    make(map[int]*model.Team),
		members:  make(map[int]*model.TeamMember),
		projects: make(map[int]*model.Project),
		tasks:    make(map[int]*model.Task),
		comments: make(map[int]*model.Comment),
		files:    make(map[int]*model.File),
		messages: make(map[int]*model.Message),
	}
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	s.userSeq++
	u.ID = s.userSeq
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) User(_ context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) Users(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, id int, p repository.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID == id {
			continue
		}
		if p.Username != nil && other.Username == *p.Username {
			return nil, repository.ErrDuplicate
		}
		if p.Email != nil && other.Email == *p.Email {
			return nil, repository.ErrDuplicate
		}
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	cp := *u
	return &cp, nil
}

func (s *Store) DeleteUser(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	// Memberships go first so no membership ever references a missing user.
	for mid, m := range s.members {
		if m.UserID == id {
			delete(s.members, mid)
		}
	}
	delete(s.users, id)
	return true, nil
}

// ---- teams ----

func (s *Store) CreateTeam(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamSeq++
	t.ID = s.teamSeq
	t.CreatedAt = time.Now().UTC()
	cp := *t
	s.teams[t.ID] = &cp
	// The creator's admin membership is part of the same logical write.
	s.memberSeq++
	s.members[s.memberSeq] = &model.TeamMember{
		ID:     s.memberSeq,
		TeamID: t.ID,
		UserID: t.CreatedBy,
		Role:   model.RoleAdmin,
	}
	return nil
}

func (s *Store) Team(_ context.Context, id int) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) TeamsByUser(_ context.Context, userID int) ([]model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Team{}
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if t, ok := s.teams[m.TeamID]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateTeam(_ context.Context, id int, p repository.TeamPatch) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	cp := *t
	return &cp, nil
}

func (s *Store) DeleteTeam(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return false, nil
	}
	for mid, m := range s.members {
		if m.TeamID == id {
			delete(s.members, mid)
		}
	}
	for msgID, msg := range s.messages {
		if msg.TeamID == id {
			delete(s.messages, msgID)
		}
	}
	for pid, p := range s.projects {
		if p.TeamID == id {
			s.deleteProjectLocked(pid)
		}
	}
	delete(s.teams, id)
	return true, nil
}

// ---- team members ----

func (s *Store) AddTeamMember(_ context.Context, m *model.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.TeamID == m.TeamID && existing.UserID == m.UserID {
			return repository.ErrDuplicate
		}
	}
	s.memberSeq++
	m.ID = s.memberSeq
	cp := *m
	cp.User = nil
	s.members[m.ID] = &cp
	return nil
}

func (s *Store) TeamMembers(_ context.Context, teamID int) ([]model.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.TeamMember{}
	for _, m := range s.members {
		if m.TeamID != teamID {
			continue
		}
		u, ok := s.users[m.UserID]
		if !ok {
			return nil, repository.ErrIntegrity
		}
		cp := *m
		user := *u
		cp.User = &user
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) TeamMember(_ context.Context, teamID, userID int) (*model.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.TeamID == teamID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) RemoveTeamMember(_ context.Context, teamID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.members {
		if m.TeamID == teamID && m.UserID == userID {
			delete(s.members, id)
			return true, nil
		}
	}
	return false, nil
}

// ---- projects ----

func (s *Store) CreateProject(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectSeq++
	p.ID = s.projectSeq
	p.CreatedAt = time.Now().UTC()
	if p.Color == "" {
		p.Color = model.DefaultProjectColor
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *Store) Project(_ context.Context, id int) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ProjectsByTeam(_ context.Context, teamID int) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Project{}
	for _, p := range s.projects {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, id int, p repository.ProjectPatch) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proj, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Name != nil {
		proj.Name = *p.Name
	}
	if p.Description != nil {
		proj.Description = *p.Description
	}
	if p.Color != nil {
		proj.Color = *p.Color
	}
	if p.StartDate != nil {
		proj.StartDate = *p.StartDate
	}
	if p.DueDate != nil {
		due := *p.DueDate
		proj.DueDate = &due
	}
	cp := *proj
	return &cp, nil
}

func (s *Store) DeleteProject(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	s.deleteProjectLocked(id)
	return true, nil
}

func (s *Store) deleteProjectLocked(id int) {
	for tid, t := range s.tasks {
		if t.ProjectID == id {
			for cid, c := range s.comments {
				if c.TaskID == tid {
					delete(s.comments, cid)
				}
			}
			delete(s.tasks, tid)
		}
	}
	for fid, f := range s.files {
		if f.ProjectID == id {
			delete(s.files, fid)
		}
	}
	delete(s.projects, id)
}

// ---- tasks ----

func (s *Store) CreateTask(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskSeq++
	t.ID = s.taskSeq
	t.CreatedAt = time.Now().UTC()
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	s.tasks[t.ID] = &cp
	return nil
}

func (s *Store) Task(_ context.Context, id int) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *Store) TasksByProject(_ context.Context, projectID int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *copyTask(t))
		}
	}
	// Kanban position, ties broken by id so duplicate positions render stably.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) TasksByAssignee(_ context.Context, assigneeID int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == assigneeID {
			out = append(out, *copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateTask(_ context.Context, id int, p repository.TaskPatch) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssigneeID != nil {
		assignee := *p.AssigneeID
		t.AssigneeID = &assignee
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), *p.Tags...)
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	return copyTask(t), nil
}

func (s *Store) SetTaskPosition(_ context.Context, id int, status string, order int) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Status = status
	t.Order = order
	return copyTask(t), nil
}

func (s *Store) DeleteTask(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
	for _, f := range s.files {
		if f.TaskID != nil && *f.TaskID == id {
			f.TaskID = nil
		}
	}
	delete(s.tasks, id)
	return true, nil
}

func copyTask(t *model.Task) *model.Task {
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		cp.AssigneeID = &assignee
	}
	if t.DueDate != nil {
		due := *t.DueDate
		cp.DueDate = &due
	}
	return &cp
}

// ---- comments ----

func (s *Store) CreateComment(_ context.Context, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentSeq++
	c.ID = s.commentSeq
	c.CreatedAt = time.Now().UTC()
	cp := *c
	cp.Author = nil
	s.comments[c.ID] = &cp
	return nil
}

func (s *Store) Comment(_ context.Context, id int) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) CommentsByTask(_ context.Context, taskID int) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if c.TaskID != taskID {
			continue
		}
		cp := *c
		if u, ok := s.users[c.UserID]; ok {
			user := *u
			cp.Author = &user
		}
		out = append(out, cp)
	}
	sortNewestFirst(out, func(c model.Comment) (time.Time, int) { return c.CreatedAt, c.ID })
	return out, nil
}

func (s *Store) DeleteComment(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return false, nil
	}
	delete(s.comments, id)
	return true, nil
}

// ---- files ----

func (s *Store) CreateFile(_ context.Context, f *model.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileSeq++
	f.ID = s.fileSeq
	f.UploadedAt = time.Now().UTC()
	cp := *f
	cp.Uploader = nil
	s.files[f.ID] = &cp
	return nil
}

func (s *Store) File(_ context.Context, id int) (*model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *Store) FilesByProject(_ context.Context, projectID int) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.File{}
	for _, f := range s.files {
		if f.ProjectID == projectID {
			out = append(out, s.fileWithUploaderLocked(f))
		}
	}
	sortNewestFirst(out, func(f model.File) (time.Time, int) { return f.UploadedAt, f.ID })
	return out, nil
}

func (s *Store) FilesByTask(_ context.Context, taskID int) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.File{}
	for _, f := range s.files {
		if f.TaskID != nil && *f.TaskID == taskID {
			out = append(out, s.fileWithUploaderLocked(f))
		}
	}
	sortNewestFirst(out, func(f model.File) (time.Time, int) { return f.UploadedAt, f.ID })
	return out, nil
}

func (s *Store) fileWithUploaderLocked(f *model.File) model.File {
	cp := *f
	if f.TaskID != nil {
		taskID := *f.TaskID
		cp.TaskID = &taskID
	}
	if u, ok := s.users[f.UploadedBy]; ok {
		user := *u
		cp.Uploader = &user
	}
	return cp
}

func (s *Store) DeleteFile(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return false, nil
	}
	delete(s.files, id)
	return true, nil
}

// ---- messages ----

func (s *Store) CreateMessage(_ context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageSeq++
	m.ID = s.messageSeq
	m.CreatedAt = time.Now().UTC()
	cp := *m
	cp.Author = nil
	s.messages[m.ID] = &cp
	return nil
}

func (s *Store) Message(_ context.Context, id int) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) MessagesByTeam(_ context.Context, teamID int) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Message{}
	for _, m := range s.messages {
		if m.TeamID != teamID {
			continue
		}
		cp := *m
		if u, ok := s.users[m.UserID]; ok {
			user := *u
			cp.Author = &user
		}
		out = append(out, cp)
	}
	sortNewestFirst(out, func(m model.Message) (time.Time, int) { return m.CreatedAt, m.ID })
	return out, nil
}

func (s *Store) DeleteMessage(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return false, nil
	}
	delete(s.messages, id)
	return true, nil
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, int)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}
