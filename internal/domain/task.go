package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values, lowest first
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// dateOnlyLayout is the calendar-date form accepted for due dates.
const dateOnlyLayout = "2006-01-02"

// Task is a unit of work owned by a user.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	OwnerID     uuid.UUID    `json:"owner"`
	Reminder    bool         `json:"reminder"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask creates a task owned by ownerID with reminder unset.
// Empty status and priority fall back to pending and low.
func NewTask(
	ownerID uuid.UUID,
	title, description string,
	status TaskStatus,
	priority TaskPriority,
	dueDate *time.Time,
) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityLow
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "Task ID cannot be empty", ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "Task owner cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "Title is required", ErrValidation)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "Invalid status", ErrInvalidTaskStatus)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "Invalid priority", ErrInvalidTaskPriority)
	}
	return nil
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus converts a raw string into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if !status.Valid() {
		return "", NewValidationError("status", "Invalid status", ErrInvalidTaskStatus)
	}
	return status, nil
}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities low < medium < high. Unknown priorities rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	}
	return 0
}

// ParseTaskPriority converts a raw string into a TaskPriority.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	priority := TaskPriority(raw)
	if !priority.Valid() {
		return "", NewValidationError("priority", "Invalid priority", ErrInvalidTaskPriority)
	}
	return priority, nil
}

// DueDate is a parsed due date. A date-only value (YYYY-MM-DD) stands for
// the whole UTC day; otherwise it is an exact instant.
type DueDate struct {
	Time     time.Time
	DateOnly bool
}

// ParseDueDate accepts RFC 3339 timestamps and YYYY-MM-DD dates.
func ParseDueDate(raw string) (DueDate, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return DueDate{Time: t.UTC(), DateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return DueDate{Time: t.UTC()}, nil
	}
	return DueDate{}, NewValidationError("dueDate", "Invalid due date format", ErrInvalidDueDate)
}

// IsPast reports whether the due date lies strictly before now.
// A date-only value is past only once its whole day has ended.
func (d DueDate) IsPast(now time.Time) bool {
	if d.DateOnly {
		return d.Time.Before(startOfDay(now))
	}
	return d.Time.Before(now)
}

// UpperBound is the latest instant covered by the due date.
func (d DueDate) UpperBound() time.Time {
	if d.DateOnly {
		return d.Time.Add(24*time.Hour - time.Nanosecond)
	}
	return d.Time
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
