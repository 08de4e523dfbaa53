package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

const taskColumns = `id, title, description, status, priority, due_date, owner_id, reminder, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
// Returns store.ErrTitleExists if the title is taken and
// store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.OwnerID,
		task.Reminder,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return s.mapWriteError(log, "create", task.ID, task.OwnerID, err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByTitle implements store.TaskStore.GetByTitle.
func (s *PostgresTaskStore) GetByTitle(ctx context.Context, title string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE title = $1`
	return s.getOne(ctx, query, title)
}

func (s *PostgresTaskStore) getOne(ctx context.Context, query string, arg any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("task not found", slog.Any("key", arg))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}
	return task, nil
}

// Find implements store.TaskStore.Find. Tasks are returned in creation order.
func (s *PostgresTaskStore) Find(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var conditions []string
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.DueOnOrBefore != nil {
		args = append(args, filter.DueOnOrBefore.UTC())
		conditions = append(conditions, fmt.Sprintf("due_date <= $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "find", "failed to scan row", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "find", "failed to iterate rows", err)
	}

	log.Debug("found tasks",
		slog.Int("count", len(tasks)),
		slog.Int("conditions", len(conditions)))
	return tasks, nil
}

// Update implements store.TaskStore.Update in a single statement.
// Unset fields keep their stored values. An empty update reads the task
// back without touching updated_at.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.IsEmpty() {
		log.Debug("empty task update, returning stored task", slog.String("task_id", id.String()))
		return s.GetByID(ctx, id)
	}

	var status, priority *string
	if update.Status != nil {
		v := string(*update.Status)
		status = &v
	}
	if update.Priority != nil {
		v := string(*update.Priority)
		priority = &v
	}
	var ownerID any
	if update.OwnerID != nil {
		ownerID = *update.OwnerID
	}

	query := `
		UPDATE tasks SET
			title       = COALESCE($2::text, title),
			description = COALESCE($3::text, description),
			status      = COALESCE($4::text, status),
			priority    = COALESCE($5::text, priority),
			due_date    = COALESCE($6::timestamptz, due_date),
			owner_id    = COALESCE($7::uuid, owner_id),
			reminder    = COALESCE($8::boolean, reminder),
			updated_at  = $9
		WHERE id = $1
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		id,
		nullString(update.Title),
		nullString(update.Description),
		nullString(status),
		nullString(priority),
		nullTime(update.DueDate),
		ownerID,
		nullBool(update.Reminder),
		time.Now().UTC(),
	))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		owner := uuid.Nil
		if update.OwnerID != nil {
			owner = *update.OwnerID
		}
		return nil, s.mapWriteError(log, "update", id, owner, err)
	}

	log.Info("task updated successfully", slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}
	if err := CheckRowsAffected(result, "task"); err != nil {
		if IsNotFoundError(err) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
			return store.ErrTaskNotFound
		}
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

func (s *PostgresTaskStore) mapWriteError(
	log *slog.Logger,
	operation string,
	taskID uuid.UUID,
	ownerID uuid.UUID,
	err error,
) error {
	switch {
	case IsUniqueViolation(err):
		log.Warn("task title already exists",
			slog.String("operation", operation),
			slog.String("task_id", taskID.String()))
		return MapUniqueViolation(err, store.ErrTitleExists)
	case IsForeignKeyViolation(err):
		log.Warn("task owner does not exist",
			slog.String("operation", operation),
			slog.String("task_id", taskID.String()),
			slog.String("owner_id", ownerID.String()))
		return MapForeignKeyViolation(err, fmt.Sprintf("user with ID %s", ownerID))
	case IsCheckConstraintViolation(err), IsNotNullViolation(err):
		log.Warn("task rejected by database constraint",
			slog.String("operation", operation),
			slog.String("task_id", taskID.String()))
		return fmt.Errorf("failed to %s task: %w", operation, MapError(err))
	}

	log.Error("failed to write task",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.String("task_id", taskID.String()))
	return fmt.Errorf("failed to %s task: %w", operation, MapError(err))
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status, priority string
	var due sql.NullTime
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&due,
		&task.OwnerID,
		&task.Reminder,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if due.Valid {
		t := due.Time.UTC()
		task.DueDate = &t
	}
	return &task, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
