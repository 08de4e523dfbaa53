package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// TaskFilter narrows a task query. Nil fields do not filter.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	// DueOnOrBefore keeps tasks whose due date is at or before this instant.
	DueOnOrBefore *time.Time
}

// TaskUpdate carries the fields of a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	OwnerID     *uuid.UUID
	Reminder    *bool
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.DueDate == nil && u.OwnerID == nil && u.Reminder == nil
}

// Apply copies the set fields onto task.
func (u TaskUpdate) Apply(task *domain.Task) {
	if u.Title != nil {
		task.Title = *u.Title
	}
	if u.Description != nil {
		task.Description = *u.Description
	}
	if u.Status != nil {
		task.Status = *u.Status
	}
	if u.Priority != nil {
		task.Priority = *u.Priority
	}
	if u.DueDate != nil {
		due := *u.DueDate
		task.DueDate = &due
	}
	if u.OwnerID != nil {
		task.OwnerID = *u.OwnerID
	}
	if u.Reminder != nil {
		task.Reminder = *u.Reminder
	}
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrTitleExists if another task already has the title.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByTitle retrieves a task by its exact title.
	// Returns ErrTaskNotFound if no task has the title.
	GetByTitle(ctx context.Context, title string) (*domain.Task, error)

	// Find returns every task matching the filter, in store order.
	Find(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update applies a partial update and returns the stored result.
	// Returns ErrTaskNotFound if the task does not exist,
	// ErrTitleExists if the new title is taken and
	// ErrInvalidEntity if the new owner does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
