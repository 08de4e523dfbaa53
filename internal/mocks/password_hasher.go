package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// MockHashPrefix marks hashes produced by MockPasswordHasher.
const MockHashPrefix = "hashed:"

// ErrPasswordMismatch is returned by MockPasswordHasher on a failed comparison.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing without
// bcrypt's cost. Hashes are the plaintext behind MockHashPrefix.
type MockPasswordHasher struct {
	// HashFn and CompareFn allow for custom behavior in tests
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments passed to Compare for verification
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return MockHashPrefix + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}

	if strings.TrimPrefix(hashedPassword, MockHashPrefix) == password &&
		strings.HasPrefix(hashedPassword, MockHashPrefix) {
		return nil
	}
	return ErrPasswordMismatch
}
