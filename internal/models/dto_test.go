package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	deadline, err := ParseDeadline("2026-11-09T04:59:00.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 11, 9, 4, 59, 0, 0, time.UTC)
	if !deadline.Equal(want) {
		t.Errorf("expected %v, got %v", want, deadline)
	}
}

func TestParseDeadlineRFC3339Fallback(t *testing.T) {
	deadline, err := ParseDeadline("2026-11-09T04:59:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deadline.Location() != time.UTC {
		t.Error("deadline must be normalized to UTC")
	}
}

func TestParseDeadlineRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "tomorrow", "2026-11-09", "09/11/2026 04:59"} {
		if _, err := ParseDeadline(value); !errors.Is(err, ErrBadDeadlineFormat) {
			t.Errorf("expected ErrBadDeadlineFormat for %q, got %v", value, err)
		}
	}
}

func TestSubmissionPath(t *testing.T) {
	got := SubmissionPath("student@example.com", "a1", "HW1", 2)
	want := "student@example.com/a1/HW1/2"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
