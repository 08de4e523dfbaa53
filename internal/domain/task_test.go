package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	ownerID := uuid.New()
	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)

	task, err := NewTask(ownerID, "Write report", "Quarterly numbers", "", "", &due)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil task ID")
	}
	if task.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, task.OwnerID)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Expected default status %q, got %q", TaskStatusPending, task.Status)
	}
	if task.Priority != TaskPriorityLow {
		t.Errorf("Expected default priority %q, got %q", TaskPriorityLow, task.Priority)
	}
	if task.Reminder {
		t.Error("Expected reminder to be false on a new task")
	}

	if _, err := NewTask(uuid.Nil, "t", "d", "", "", nil); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected %v for missing owner, got %v", ErrInvalidID, err)
	}
	if _, err := NewTask(ownerID, " ", "d", "", "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected %v for blank title, got %v", ErrValidation, err)
	}
	if _, err := NewTask(ownerID, "t", "d", "done", "", nil); !errors.Is(err, ErrInvalidTaskStatus) {
		t.Errorf("Expected %v, got %v", ErrInvalidTaskStatus, err)
	}
	if _, err := NewTask(ownerID, "t", "d", "", "urgent", nil); !errors.Is(err, ErrInvalidTaskPriority) {
		t.Errorf("Expected %v, got %v", ErrInvalidTaskPriority, err)
	}
}

func TestParseTaskStatusAndPriority(t *testing.T) {
	for _, raw := range []string{"pending", "in-progress", "completed"} {
		if _, err := ParseTaskStatus(raw); err != nil {
			t.Errorf("ParseTaskStatus(%q) returned %v", raw, err)
		}
	}
	for _, raw := range []string{"", "Pending", "in_progress"} {
		if _, err := ParseTaskStatus(raw); !errors.Is(err, ErrInvalidTaskStatus) {
			t.Errorf("ParseTaskStatus(%q) = %v, want %v", raw, err, ErrInvalidTaskStatus)
		}
	}

	for _, raw := range []string{"low", "medium", "high"} {
		if _, err := ParseTaskPriority(raw); err != nil {
			t.Errorf("ParseTaskPriority(%q) returned %v", raw, err)
		}
	}
	if _, err := ParseTaskPriority("critical"); !errors.Is(err, ErrInvalidTaskPriority) {
		t.Errorf("Expected %v, got %v", ErrInvalidTaskPriority, err)
	}
}

func TestTaskPriorityRank(t *testing.T) {
	if !(TaskPriorityLow.Rank() < TaskPriorityMedium.Rank() &&
		TaskPriorityMedium.Rank() < TaskPriorityHigh.Rank()) {
		t.Error("Expected low < medium < high")
	}
	if TaskPriority("other").Rank() != 0 {
		t.Error("Expected unknown priority to rank 0")
	}
}

func TestParseDueDate(t *testing.T) {
	d, err := ParseDueDate("2030-05-17")
	if err != nil {
		t.Fatalf("Expected date-only value to parse, got %v", err)
	}
	if !d.DateOnly {
		t.Error("Expected DateOnly to be set")
	}
	if !d.Time.Equal(time.Date(2030, 5, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected parsed time %v", d.Time)
	}

	d, err = ParseDueDate("2030-05-17T10:30:00+02:00")
	if err != nil {
		t.Fatalf("Expected RFC 3339 value to parse, got %v", err)
	}
	if d.DateOnly {
		t.Error("Expected DateOnly to be unset for a timestamp")
	}
	if !d.Time.Equal(time.Date(2030, 5, 17, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("Unexpected parsed time %v", d.Time)
	}

	if _, err := ParseDueDate("next tuesday"); !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("Expected %v, got %v", ErrInvalidDueDate, err)
	}
}

func TestDueDateIsPast(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		past bool
	}{
		{"2026-10-17", true},
		{"2026-10-18", false},
		{"2026-10-19", false},
		{"2026-10-18T14:59:59Z", true},
		{"2026-10-18T15:00:00Z", false},
		{"2027-01-01T00:00:00Z", false},
	}

	for _, tt := range tests {
		d, err := ParseDueDate(tt.raw)
		if err != nil {
			t.Fatalf("ParseDueDate(%q) returned %v", tt.raw, err)
		}
		if got := d.IsPast(now); got != tt.past {
			t.Errorf("IsPast(%q) = %v, want %v", tt.raw, got, tt.past)
		}
	}
}

func TestDueDateUpperBound(t *testing.T) {
	d, _ := ParseDueDate("2026-10-18")
	want := time.Date(2026, 10, 18, 23, 59, 59, 999999999, time.UTC)
	if !d.UpperBound().Equal(want) {
		t.Errorf("UpperBound() = %v, want %v", d.UpperBound(), want)
	}

	exact, _ := ParseDueDate("2026-10-18T09:00:00Z")
	if !exact.UpperBound().Equal(exact.Time) {
		t.Errorf("Expected exact timestamp to be its own upper bound")
	}
}
