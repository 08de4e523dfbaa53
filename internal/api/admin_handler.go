package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// AdminHandler serves the admin-only routes. Role checks happen in middleware.
type AdminHandler struct {
	userService service.UserService
	tasks       *TaskHandler
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	userService service.UserService,
	taskService service.TaskService,
	logger *slog.Logger,
) *AdminHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AdminHandler")
	}

	return &AdminHandler{
		userService: userService,
		tasks:       NewTaskHandler(taskService, logger),
		logger:      logger.With(slog.String("component", "admin_handler")),
	}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	log.Debug("listed users", slog.Int("count", len(users)))
	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"data": usersToResponse(users),
	})
}

// DeleteTask handles DELETE /admin/tasks/{id}.
func (h *AdminHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if principal, ok := shared.PrincipalFromContext(r.Context()); ok {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Info("admin deleting task", principalFields(principal)...)
	}
	h.tasks.DeleteTask(w, r)
}
