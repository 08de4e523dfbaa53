package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/api"
	"github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/mocks"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// testNow is the fixed clock for every handler test.
var testNow = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

type harness struct {
	router http.Handler
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	jwt    auth.JWTService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore(users)
	tasks.Now = func() time.Time { return testNow }
	jwtService := auth.RequireTestJWTService(t)
	hasher := auth.NewBcryptHasher(auth.DefaultJWTConfig().BcryptCost)

	authService := service.NewAuthService(users, hasher, jwtService, log)
	taskService := service.NewTaskService(tasks, log, service.WithClock(func() time.Time { return testNow }))
	userService := service.NewUserService(users, log)

	authHandler := api.NewAuthHandler(authService, false, log)
	taskHandler := api.NewTaskHandler(taskService, log)
	adminHandler := api.NewAdminHandler(userService, taskService, log)
	authMiddleware := middleware.NewAuthMiddleware(authService, nil, log)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Route("/task", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", taskHandler.CreateTask)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Delete("/{id}", taskHandler.DeleteTask)
				r.Post("/{id}/reminder", taskHandler.SetReminder)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(middleware.RequireRole(domain.RoleAdmin, nil))
			r.Get("/users", adminHandler.ListUsers)
			r.Delete("/tasks/{id}", adminHandler.DeleteTask)
		})
	})

	return &harness{router: r, users: users, tasks: tasks, jwt: jwtService}
}

// addUser seeds a user and returns it with a bearer header for it.
func (h *harness) addUser(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()
	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Seeded",
		Email:          email,
		HashedPassword: "unused",
		Role:           role,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
	h.users.AddUser(user)
	token, _, err := h.jwt.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	return user, "Bearer " + token
}

// addTask seeds a task owned by owner.
func (h *harness) addTask(
	t *testing.T,
	owner *domain.User,
	title string,
	priority domain.TaskPriority,
	due time.Time,
) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: "about " + title,
		Status:      domain.TaskStatusPending,
		Priority:    priority,
		DueDate:     &due,
		OwnerID:     owner.ID,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	h.tasks.AddTask(task)
	return task
}

func (h *harness) do(t *testing.T, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h *harness, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}
