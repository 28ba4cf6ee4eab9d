package repomanager

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
	"github.com/google/uuid"
)

// InMemoryRepositoryManager keeps users and tasks in process memory. The
// handle passed to Users and Tasks is ignored; every call shares one store.
type InMemoryRepositoryManager struct {
	users *memoryUsers
	tasks *memoryTasks
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: &memoryUsers{byID: map[string]*models.User{}, byEmail: map[string]string{}},
		tasks: &memoryTasks{byID: map[string]*memoryTask{}},
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Tasks(dbx.DBTX) tasks.Repository {
	return m.tasks
}

// DeleteUser drops a user and, like the ON DELETE CASCADE foreign key, all
// of their tasks.
func (m *InMemoryRepositoryManager) DeleteUser(id string) {
	m.users.mu.Lock()
	if u, ok := m.users.byID[id]; ok {
		delete(m.users.byEmail, u.Email)
		delete(m.users.byID, id)
	}
	m.users.mu.Unlock()

	m.tasks.mu.Lock()
	for tid, t := range m.tasks.byID {
		if t.UserID == id {
			delete(m.tasks.byID, tid)
		}
	}
	m.tasks.mu.Unlock()
}

type memoryUsers struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func (r *memoryUsers) Create(_ context.Context, email, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID

	c := *u
	c.PasswordHash = ""
	return &c, nil
}

func (r *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *r.byID[id]
	return &c, nil
}

func (r *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	c.PasswordHash = ""
	return &c, nil
}

type memoryTask struct {
	models.Task
	seq int64
}

type memoryTasks struct {
	mu   sync.RWMutex
	seq  int64
	byID map[string]*memoryTask
}

func (r *memoryTasks) Create(_ context.Context, ownerID, title string, description *string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := time.Now().UTC()
	t := &memoryTask{
		Task: models.Task{
			ID:          uuid.NewString(),
			UserID:      ownerID,
			Title:       title,
			Description: copyString(description),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		seq: r.seq,
	}
	r.byID[t.ID] = t
	return t.snapshot(), nil
}

func (r *memoryTasks) ListByOwner(_ context.Context, ownerID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]*memoryTask, 0)
	for _, t := range r.byID {
		if t.UserID == ownerID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].seq > owned[j].seq })

	out := make([]*models.Task, 0, len(owned))
	for _, t := range owned {
		out = append(out, t.snapshot())
	}
	return out, nil
}

func (r *memoryTasks) FindByID(_ context.Context, id, ownerID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.owned(id, ownerID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t.snapshot(), nil
}

func (r *memoryTasks) Update(_ context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(id, ownerID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.IsEmpty() {
		return t.snapshot(), nil
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = copyString(patch.Description)
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	return t.snapshot(), nil
}

func (r *memoryTasks) Delete(_ context.Context, id, ownerID string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(id, ownerID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, id)
	return t.snapshot(), nil
}

func (r *memoryTasks) owned(id, ownerID string) (*memoryTask, bool) {
	t, ok := r.byID[id]
	if !ok || t.UserID != ownerID {
		return nil, false
	}
	return t, true
}

func (t *memoryTask) snapshot() *models.Task {
	c := t.Task
	c.Description = copyString(t.Description)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
