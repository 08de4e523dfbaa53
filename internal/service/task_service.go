package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// Pagination defaults applied when a query omits or garbles page and limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// DefaultSortKey is the sort key used when a list query names none.
const DefaultSortKey = "dueDate"

// CreateTaskInput carries the fields of a task creation request.
type CreateTaskInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Status      string `validate:"required"`
	Priority    string `validate:"required"`
	DueDate     string `validate:"required"`
}

// UpdateTaskInput carries a partial update. Empty strings mean "not supplied".
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	Owner       string
}

func (in UpdateTaskInput) isEmpty() bool {
	return in.Title == "" && in.Description == "" && in.Status == "" &&
		in.Priority == "" && in.DueDate == "" && in.Owner == ""
}

// ListTasksQuery holds the raw query parameters of a task listing.
type ListTasksQuery struct {
	Status   string
	Priority string
	DueDate  string
	SortBy   string
	Order    string
	Page     string
	Limit    string
}

// Pagination describes the page returned by a listing.
type Pagination struct {
	TotalTasks  int `json:"totalTasks"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks      []*domain.Task
	Pagination Pagination
}

// TaskService manages tasks.
type TaskService interface {
	// Create stores a new task owned by principal.
	Create(ctx context.Context, principal domain.Principal, input CreateTaskInput) (*domain.Task, error)

	// List filters, sorts and paginates tasks.
	List(ctx context.Context, query ListTasksQuery) (*TaskPage, error)

	// GetByID returns a single task.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies the supplied fields to a task.
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*domain.Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetReminder flags a task that has a due date for reminding.
	SetReminder(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
	now       func() time.Time
}

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock overrides the time source used for due date checks.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger, opts ...TaskServiceOption) TaskService {
	s := &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// parseFutureDueDate parses raw and rejects values strictly before now.
func (s *taskServiceImpl) parseFutureDueDate(raw string) (time.Time, error) {
	due, err := domain.ParseDueDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if due.IsPast(s.now()) {
		return time.Time{}, domain.NewValidationError("dueDate",
			"Due date cannot be in the past", domain.ErrInvalidDueDate)
	}
	return due.Time, nil
}

// ensureTitleFree returns store.ErrTitleExists when a task other than self holds title.
func (s *taskServiceImpl) ensureTitleFree(ctx context.Context, title string, self uuid.UUID) error {
	existing, err := s.taskStore.GetByTitle(ctx, title)
	switch {
	case err == nil:
		if existing.ID != self {
			return fmt.Errorf("title %q: %w", title, store.ErrTitleExists)
		}
		return nil
	case errors.Is(err, store.ErrTaskNotFound):
		return nil
	default:
		return err
	}
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	principal domain.Principal,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if principal.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if err := validateInput(input, "Please provide all required fields"); err != nil {
		return nil, err
	}
	status, err := domain.ParseTaskStatus(input.Status)
	if err != nil {
		return nil, err
	}
	priority, err := domain.ParseTaskPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	// The unique index on title closes the race this check leaves open.
	if err := s.ensureTitleFree(ctx, input.Title, uuid.Nil); err != nil {
		if errors.Is(err, store.ErrTitleExists) {
			return nil, err
		}
		return nil, NewServiceError("task", "create", err)
	}

	due, err := s.parseFutureDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(principal.UserID, input.Title, input.Description, status, priority, &due)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		switch {
		case errors.Is(err, store.ErrTitleExists):
			return nil, err
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, domain.NewValidationError("owner", "Owner does not exist", err)
		}
		return nil, NewServiceError("task", "create", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"owner_id", task.OwnerID)

	return task, nil
}

// List implements TaskService.
func (s *taskServiceImpl) List(ctx context.Context, query ListTasksQuery) (*TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var filter store.TaskFilter
	if query.Status != "" {
		status := domain.TaskStatus(query.Status)
		filter.Status = &status
	}
	if query.Priority != "" {
		priority := domain.TaskPriority(query.Priority)
		filter.Priority = &priority
	}
	if query.DueDate != "" {
		if due, err := domain.ParseDueDate(query.DueDate); err == nil {
			bound := due.UpperBound()
			filter.DueOnOrBefore = &bound
		} else {
			log.Debug("ignoring unparseable due date filter", "due_date", query.DueDate)
		}
	}

	tasks, err := s.taskStore.Find(ctx, filter)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		return nil, NewServiceError("task", "list", err)
	}

	sortKey := query.SortBy
	if sortKey == "" {
		sortKey = DefaultSortKey
	}
	SortTasks(tasks, sortKey, strings.EqualFold(query.Order, "desc"))

	page := positiveOrDefault(query.Page, DefaultPage)
	limit := positiveOrDefault(query.Limit, DefaultLimit)

	total := len(tasks)
	totalPages := pageCount(total, limit)

	// page and limit come from the client; compare before multiplying.
	pageTasks := tasks[:0]
	if page <= totalPages {
		start := (page - 1) * limit
		end := start + min(limit, total-start)
		pageTasks = tasks[start:end]
	}

	return &TaskPage{
		Tasks: pageTasks,
		Pagination: Pagination{
			TotalTasks:  total,
			CurrentPage: page,
			TotalPages:  totalPages,
		},
	}, nil
}

// pageCount is ceil(total/limit) for a positive limit.
func pageCount(total, limit int) int {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

func positiveOrDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// taskComparators orders tasks by a named field in ascending order.
var taskComparators = map[string]func(a, b *domain.Task) int{
	"dueDate": func(a, b *domain.Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	},
	"priority": func(a, b *domain.Task) int {
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	},
	"title": func(a, b *domain.Task) int {
		return strings.Compare(a.Title, b.Title)
	},
	"description": func(a, b *domain.Task) int {
		return strings.Compare(a.Description, b.Description)
	},
	"status": func(a, b *domain.Task) int {
		return strings.Compare(string(a.Status), string(b.Status))
	},
	"createdAt": func(a, b *domain.Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	"updatedAt": func(a, b *domain.Task) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	},
	"owner": func(a, b *domain.Task) int {
		return strings.Compare(a.OwnerID.String(), b.OwnerID.String())
	},
	"reminder": func(a, b *domain.Task) int {
		return cmp.Compare(boolRank(a.Reminder), boolRank(b.Reminder))
	},
	"id": func(a, b *domain.Task) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	},
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SortTasks stably sorts tasks by key. Unknown keys leave the order unchanged.
func SortTasks(tasks []*domain.Task, key string, descending bool) {
	compare, ok := taskComparators[key]
	if !ok {
		return
	}
	slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
		if descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// GetByID implements TaskService.
func (s *taskServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("task", "get", err)
	}
	return task, nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.isEmpty() {
		return nil, domain.NewValidationError("", "Please provide fields to update", nil)
	}

	var update store.TaskUpdate
	if input.Title != "" {
		if strings.TrimSpace(input.Title) == "" {
			return nil, domain.NewValidationError("title", "Title is required", nil)
		}
		update.Title = &input.Title
	}
	if input.Description != "" {
		update.Description = &input.Description
	}
	if input.Status != "" {
		status, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, err
		}
		update.Status = &status
	}
	if input.Priority != "" {
		priority, err := domain.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, err
		}
		update.Priority = &priority
	}
	if input.DueDate != "" {
		due, err := s.parseFutureDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		update.DueDate = &due
	}
	if input.Owner != "" {
		owner, err := uuid.Parse(input.Owner)
		if err != nil {
			return nil, domain.NewValidationError("owner", "Invalid owner id", domain.ErrInvalidID)
		}
		update.OwnerID = &owner
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if update.Title != nil {
		if err := s.ensureTitleFree(ctx, *update.Title, id); err != nil {
			if errors.Is(err, store.ErrTitleExists) {
				return nil, err
			}
			return nil, NewServiceError("task", "update", err)
		}
	}

	task, err := s.taskStore.Update(ctx, id, update)
	if err != nil {
		switch {
		case store.IsNotFoundError(err), errors.Is(err, store.ErrTitleExists):
			return nil, err
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, domain.NewValidationError("owner", "Owner does not exist", err)
		}
		log.Error("failed to update task", "error", err, "task_id", id)
		return nil, NewServiceError("task", "update", err)
	}

	log.Info("task updated", "task_id", id)
	return task, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete task", "error", err, "task_id", id)
		return NewServiceError("task", "delete", err)
	}

	log.Info("task deleted", "task_id", id)
	return nil
}

// SetReminder implements TaskService.
func (s *taskServiceImpl) SetReminder(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.DueDate == nil {
		return nil, domain.NewValidationError("dueDate", "Due date is not set", domain.ErrInvalidDueDate)
	}

	reminder := true
	task, err = s.taskStore.Update(ctx, id, store.TaskUpdate{Reminder: &reminder})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("task", "reminder", err)
	}

	log.Info("task reminder set", "task_id", id)
	return task, nil
}
