package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execOnlyDB answers ExecContext with a canned result; the query methods
// are not used by the writes under test.
type execOnlyDB struct {
	result sql.Result
	err    error
}

func (d execOnlyDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return d.result, d.err
}

func (d execOnlyDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	panic("QueryContext not expected")
}

func (d execOnlyDB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	panic("QueryRowContext not expected")
}

var _ store.DBTX = execOnlyDB{}

func validTask() *domain.Task {
	now := time.Now().UTC()
	return &domain.Task{
		ID:        uuid.New(),
		Title:     "Write tests",
		Status:    domain.TaskStatusPending,
		Priority:  domain.TaskPriorityLow,
		OwnerID:   uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskStoreCreateMapsConstraintViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique title", "23505", store.ErrTitleExists},
		{"unknown owner", "23503", store.ErrInvalidEntity},
		{"check constraint", "23514", store.ErrInvalidEntity},
		{"not null", "23502", store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := postgres.NewPostgresTaskStore(execOnlyDB{err: pgError(tt.code)}, nil)

			err := s.Create(context.Background(), validTask())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserStoreCreateMapsConstraintViolations(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "hash",
		Role:           domain.RoleUser,
	}

	s := postgres.NewPostgresUserStore(execOnlyDB{err: pgError("23514")}, nil)
	assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrInvalidEntity)

	s = postgres.NewPostgresUserStore(execOnlyDB{err: pgError("23505")}, nil)
	assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrEmailExists)
}

func TestTaskStoreDeleteMissing(t *testing.T) {
	t.Parallel()

	s := postgres.NewPostgresTaskStore(execOnlyDB{result: fakeResult{rows: 0}}, nil)
	assert.ErrorIs(t, s.Delete(context.Background(), uuid.New()), store.ErrTaskNotFound)

	s = postgres.NewPostgresTaskStore(execOnlyDB{result: fakeResult{rows: 1}}, nil)
	assert.NoError(t, s.Delete(context.Background(), uuid.New()))
}
