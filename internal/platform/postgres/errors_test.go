package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "tasks",
		ColumnName:     "owner_id",
		ConstraintName: "tasks_owner_id_fkey",
	}
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, r.err }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("exec: %w", pgError("23505"))
	plain := errors.New("boom")

	assert.True(t, postgres.IsUniqueViolation(pgError("23505")))
	assert.True(t, postgres.IsUniqueViolation(wrapped), "wrapped driver errors should be detected")
	assert.False(t, postgres.IsUniqueViolation(pgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(plain))
	assert.False(t, postgres.IsUniqueViolation(nil))

	assert.True(t, postgres.IsForeignKeyViolation(pgError("23503")))
	assert.False(t, postgres.IsForeignKeyViolation(pgError("23505")))

	assert.True(t, postgres.IsCheckConstraintViolation(pgError("23514")))
	assert.False(t, postgres.IsCheckConstraintViolation(plain))

	assert.True(t, postgres.IsNotNullViolation(pgError("23502")))
	assert.False(t, postgres.IsNotNullViolation(pgError("23514")))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrTaskNotFound))
	assert.True(t, postgres.IsNotFoundError(fmt.Errorf("lookup: %w", store.ErrNotFound)))
	assert.False(t, postgres.IsNotFoundError(store.ErrDuplicate))
	assert.False(t, postgres.IsNotFoundError(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  sql.Result
		wantErr error
		anyErr  bool
	}{
		{name: "one row", result: fakeResult{rows: 1}},
		{name: "several rows", result: fakeResult{rows: 3}},
		{name: "no rows", result: fakeResult{rows: 0}, wantErr: store.ErrNotFound},
		{name: "driver error", result: fakeResult{err: errors.New("driver")}, anyErr: true},
		{name: "nil result", result: nil, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := postgres.CheckRowsAffected(tt.result, "task")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.MapError(nil))
	assert.ErrorIs(t, postgres.MapError(sql.ErrNoRows), store.ErrNotFound)
	assert.ErrorIs(t, postgres.MapError(pgError("23505")), store.ErrDuplicate)
	assert.ErrorIs(t, postgres.MapError(pgError("23503")), store.ErrInvalidEntity)
	assert.ErrorIs(t, postgres.MapError(pgError("23514")), store.ErrInvalidEntity)
	assert.ErrorIs(t, postgres.MapError(pgError("23502")), store.ErrInvalidEntity)

	other := errors.New("connection reset")
	assert.Same(t, other, postgres.MapError(other))

	unmapped := pgError("42P01")
	assert.Equal(t, error(unmapped), postgres.MapError(unmapped))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(pgError("23505"), store.ErrTitleExists)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrTitleExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	other := pgError("23503")
	assert.Equal(t, error(other), postgres.MapUniqueViolation(other, store.ErrTitleExists))
}

func TestMapForeignKeyViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapForeignKeyViolation(pgError("23503"), "owner")
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "owner not found")

	plain := errors.New("boom")
	assert.Same(t, plain, postgres.MapForeignKeyViolation(plain, "owner"))
}
