// Package mocks provides centralized mock implementations for testing.
//
// The stores keep their data in memory and honor the same error contracts as
// the PostgreSQL implementations, so service and handler tests can exercise
// conflict, not-found and foreign-key paths without a database. Function
// fields override any method when a test needs custom behavior:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
package mocks
