package models

import (
	"errors"
	"time"
)

type CreateAssignmentRequest struct {
	Name          string `json:"name"`
	Points        int    `json:"points"`
	NumOfAttempts int    `json:"num_of_attempts"`
	Deadline      string `json:"deadline"`
}

type CreateSubmissionRequest struct {
	SubmissionURL string `json:"submission_url"`
}

type SubmissionResponse struct {
	ID             string    `json:"id"`
	AssignmentID   string    `json:"assignment_id"`
	SubmissionURL  string    `json:"submission_url"`
	SubmissionDate time.Time `json:"submission_date"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewSubmissionResponse(s *Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:             s.ID,
		AssignmentID:   s.AssignmentID,
		SubmissionURL:  s.SubmissionURL,
		SubmissionDate: s.SubmissionDate,
		CreatedAt:      s.CreatedAt,
	}
}

// deadlineLayout mirrors the strict "2023-11-09T04:59:00.000Z" form accepted
// for assignment deadlines; bare RFC3339 UTC is accepted as a fallback.
const deadlineLayout = "2006-01-02T15:04:05.000Z"

var ErrBadDeadlineFormat = errors.New("invalid deadline format")

func ParseDeadline(value string) (time.Time, error) {
	if t, err := time.Parse(deadlineLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrBadDeadlineFormat
}
