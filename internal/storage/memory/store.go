package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hongminglow/taskflow-be/internal/ids"
	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

type membership struct {
	userID   string
	joinedAt time.Time
}

// Store keeps every record in process memory. It backs tests and the
// STORAGE_DRIVER=memory mode; nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	projects map[string]models.Project
	members  map[string][]membership
	tasks    map[string]models.Task
	now      func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		projects: make(map[string]models.Project),
		members:  make(map[string][]membership),
		tasks:    make(map[string]models.Task),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Close is a no-op kept for parity with the Postgres store.
func (s *Store) Close() {}

// Users ---------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = ids.New()
	}
	if _, taken := s.users[user.ID]; taken {
		return models.User{}, storage.ErrAlreadyExists
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Skills = cloneStrings(user.Skills)
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Skills != nil {
		u.Skills = cloneStrings(*patch.Skills)
	}
	if patch.Avatar != nil {
		avatar := *patch.Avatar
		u.Avatar = &avatar
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for projectID, list := range s.members {
		s.members[projectID] = withoutMember(list, id)
	}
	for taskID, t := range s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == id {
			t.AssigneeID = nil
			s.tasks[taskID] = t
		}
	}
	return nil
}

func (s *Store) UserStats(_ context.Context, id string) (models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[id]; !ok {
		return models.UserStats{}, storage.ErrNotFound
	}
	var stats models.UserStats
	for _, t := range s.tasks {
		if t.AssigneeID == nil || *t.AssigneeID != id {
			continue
		}
		stats.Tasks++
		if t.Status == models.TaskDone {
			stats.Completed++
		}
	}
	for _, list := range s.members {
		for _, m := range list {
			if m.userID == id {
				stats.Projects++
			}
		}
	}
	return stats, nil
}

// Projects ------------------------------------------------------------------

func (s *Store) CreateProject(_ context.Context, project models.Project) (models.ProjectSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.ID == "" {
		project.ID = ids.New()
	}
	if _, taken := s.projects[project.ID]; taken {
		return models.ProjectSummary{}, storage.ErrAlreadyExists
	}
	now := s.now()
	project.CreatedAt, project.UpdatedAt = now, now
	s.projects[project.ID] = project
	return s.summaryLocked(project), nil
}

func (s *Store) FindProject(_ context.Context, id string) (models.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return models.ProjectSummary{}, storage.ErrNotFound
	}
	return s.summaryLocked(p), nil
}

func (s *Store) ListProjects(_ context.Context) ([]models.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProjectSummary, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, s.summaryLocked(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, id string, patch models.ProjectPatch) (models.ProjectSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return models.ProjectSummary{}, storage.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		desc := *patch.Description
		p.Description = &desc
	}
	p.UpdatedAt = s.now()
	s.projects[id] = p
	return s.summaryLocked(p), nil
}

func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.projects, id)
	delete(s.members, id)
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

func (s *Store) ListMembers(_ context.Context, projectID string) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.members[projectID]
	out := make([]models.Member, 0, len(list))
	for _, m := range list {
		u, ok := s.users[m.userID]
		if !ok {
			continue
		}
		out = append(out, models.Member{ID: u.ID, Name: u.Name, Role: u.Role, Avatar: u.Avatar})
	}
	return out, nil
}

func (s *Store) AddMember(_ context.Context, projectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		return storage.ErrInvalidReference
	}
	if _, ok := s.users[userID]; !ok {
		return storage.ErrInvalidReference
	}
	for _, m := range s.members[projectID] {
		if m.userID == userID {
			return storage.ErrAlreadyExists
		}
	}
	s.members[projectID] = append(s.members[projectID], membership{userID: userID, joinedAt: s.now()})
	return nil
}

func (s *Store) RemoveMember(_ context.Context, projectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.members[projectID]
	trimmed := withoutMember(list, userID)
	if len(trimmed) == len(list) {
		return storage.ErrNotFound
	}
	s.members[projectID] = trimmed
	return nil
}

// Tasks ---------------------------------------------------------------------

func (s *Store) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTaskRefsLocked(task.ProjectID, task.AssigneeID); err != nil {
		return models.Task{}, err
	}
	if task.ID == "" {
		task.ID = ids.New()
	}
	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	now := s.now()
	task.CreatedAt, task.UpdatedAt = now, now
	task.Assignee = nil
	s.tasks[task.ID] = task
	return s.withAssigneeLocked(task), nil
}

func (s *Store) FindTask(_ context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return s.withAssigneeLocked(t), nil
}

func (s *Store) ListTasks(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.AssigneeID != "" && (t.AssigneeID == nil || *t.AssigneeID != filter.AssigneeID) {
			continue
		}
		out = append(out, s.withAssigneeLocked(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateTask(_ context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	projectID := t.ProjectID
	if patch.ProjectID != nil {
		projectID = *patch.ProjectID
	}
	assignee := t.AssigneeID
	if patch.AssigneeSet {
		assignee = patch.AssigneeID
	}
	if err := s.checkTaskRefsLocked(projectID, assignee); err != nil {
		return models.Task{}, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		desc := *patch.Description
		t.Description = &desc
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		t.DueDate = &due
	}
	t.ProjectID = projectID
	t.AssigneeID = assignee
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return s.withAssigneeLocked(t), nil
}

func (s *Store) UpdateTaskStatus(_ context.Context, id, projectID string, status models.TaskStatus) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.ProjectID != projectID {
		return models.Task{}, storage.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return s.withAssigneeLocked(t), nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// helpers -------------------------------------------------------------------

func (s *Store) summaryLocked(p models.Project) models.ProjectSummary {
	taskCount := 0
	for _, t := range s.tasks {
		if t.ProjectID == p.ID {
			taskCount++
		}
	}
	memberIDs := make([]string, 0, len(s.members[p.ID]))
	for _, m := range s.members[p.ID] {
		memberIDs = append(memberIDs, m.userID)
	}
	return models.ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		TaskCount:   taskCount,
		Members:     memberIDs,
	}
}

func (s *Store) withAssigneeLocked(t models.Task) models.Task {
	t.Assignee = nil
	if t.AssigneeID != nil {
		if u, ok := s.users[*t.AssigneeID]; ok {
			t.Assignee = &models.Assignee{ID: u.ID, Name: u.Name}
		}
	}
	return t
}

func (s *Store) checkTaskRefsLocked(projectID string, assigneeID *string) error {
	if _, ok := s.projects[projectID]; !ok {
		return storage.ErrInvalidReference
	}
	if assigneeID != nil {
		if _, ok := s.users[*assigneeID]; !ok {
			return storage.ErrInvalidReference
		}
	}
	return nil
}

func withoutMember(list []membership, userID string) []membership {
	out := list[:0:0]
	for _, m := range list {
		if m.userID != userID {
			out = append(out, m)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
