package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory for testing.
// Tasks are kept in insertion order, which Find reports as store order.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn func(ctx context.Context, task *domain.Task) error
	FindFn   func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error

	// Users, when set, is consulted for owner references.
	Users *MockUserStore

	// Now stamps UpdatedAt on updates; defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	Tasks []*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty task store that validates owners against users.
func NewMockTaskStore(users *MockUserStore) *MockTaskStore {
	return &MockTaskStore{Users: users}
}

// AddTask seeds the store with task, bypassing Create's checks.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks = append(m.Tasks, task)
}

func (m *MockTaskStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now().UTC()
}

func (m *MockTaskStore) ownerExists(id uuid.UUID) bool {
	return m.Users == nil || m.Users.exists(id)
}

func (m *MockTaskStore) indexOf(id uuid.UUID) int {
	for i, task := range m.Tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func clone(task *domain.Task) *domain.Task {
	c := *task
	if task.DueDate != nil {
		due := *task.DueDate
		c.DueDate = &due
	}
	return &c
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if !m.ownerExists(task.OwnerID) {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Tasks {
		if existing.Title == task.Title {
			return store.ErrTitleExists
		}
	}

	m.Tasks = append(m.Tasks, clone(task))
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(id); i >= 0 {
		return clone(m.Tasks[i]), nil
	}
	return nil, store.ErrTaskNotFound
}

// GetByTitle implements the TaskStore interface
func (m *MockTaskStore) GetByTitle(ctx context.Context, title string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range m.Tasks {
		if task.Title == title {
			return clone(task), nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// Find implements the TaskStore interface
func (m *MockTaskStore) Find(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Task, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.DueOnOrBefore != nil &&
			(task.DueDate == nil || task.DueDate.After(*filter.DueOnOrBefore)) {
			continue
		}
		result = append(result, clone(task))
	}
	return result, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}

	if update.OwnerID != nil && !m.ownerExists(*update.OwnerID) {
		return nil, store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	if update.IsEmpty() {
		return clone(m.Tasks[i]), nil
	}

	if update.Title != nil {
		for _, other := range m.Tasks {
			if other.ID != id && other.Title == *update.Title {
				return nil, store.ErrTitleExists
			}
		}
	}

	updated := clone(m.Tasks[i])
	update.Apply(updated)
	updated.UpdatedAt = m.now()
	m.Tasks[i] = updated

	return clone(updated), nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return store.ErrTaskNotFound
	}
	m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
	return nil
}
