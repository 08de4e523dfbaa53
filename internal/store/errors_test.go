package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{
			name:     "wrapped ErrTaskNotFound",
			err:      fmt.Errorf("failed to load task: %w", ErrTaskNotFound),
			expected: true,
		},
		{name: "duplicate is not not-found", err: ErrTitleExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrEmailExists", err: ErrEmailExists, expected: true},
		{name: "ErrTitleExists", err: ErrTitleExists, expected: true},
		{
			name:     "wrapped ErrEmailExists",
			err:      fmt.Errorf("failed to create user: %w", ErrEmailExists),
			expected: true,
		},
		{name: "not found is not duplicate", err: ErrUserNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("task", "update", "query failed", cause)

	assert.Equal(t, "update operation on task failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "list", "scan failed", nil)
	assert.Equal(t, "list operation on user failed: scan failed", bare.Error())
}

func TestTaskUpdate(t *testing.T) {
	assert.True(t, TaskUpdate{}.IsEmpty())

	title := "New title"
	reminder := true
	update := TaskUpdate{Title: &title, Reminder: &reminder}
	assert.False(t, update.IsEmpty())
}
