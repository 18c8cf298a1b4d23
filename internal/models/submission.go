package models

import (
	"time"
)

// Submission is one artifact reference recorded against an assignment.
// Rows are immutable after insert and are removed only when the parent
// assignment is deleted.
type Submission struct {
	ID             string    `json:"id" db:"id"`
	AssignmentID   string    `json:"assignment_id" db:"assignment_id"`
	SubmissionURL  string    `json:"submission_url" db:"submission_url"`
	SubmissionDate time.Time `json:"submission_date" db:"submission_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
