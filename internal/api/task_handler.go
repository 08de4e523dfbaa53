package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /task. The task is owned by the caller.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := handlePrincipal(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid task payload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskService.Create(r.Context(), principal, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", append(principalFields(principal),
		slog.String("task_id", task.ID.String()))...)
	shared.RespondWithSuccess(w, r, http.StatusCreated, shared.Envelope{
		"data": taskToResponse(task),
	})
}

// ListTasks handles GET /task with filter, sort and pagination query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := h.taskService.List(r.Context(), service.ListTasksQuery{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		DueDate:  q.Get("dueDate"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"tasks":      tasksToResponse(page.Tasks),
		"pagination": page.Pagination,
	})
}

// GetTask handles GET /task/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"data": taskToResponse(task),
	})
}

// UpdateTask handles PUT /task/{id}. Only the supplied fields change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid task update payload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	owner := req.Owner
	if owner == "" {
		owner = req.UserID
	}

	task, err := h.taskService.Update(r.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Owner:       owner,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"data": taskToResponse(task),
	})
}

// DeleteTask handles DELETE /task/{id} and DELETE /admin/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Error deleting task")
		return
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"message": "Task deleted successfully",
	})
}

// SetReminder handles POST /task/{id}/reminder.
func (h *TaskHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.SetReminder(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to set reminder")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"message": "Reminder set successfully",
		"data":    taskToResponse(task),
	})
}
