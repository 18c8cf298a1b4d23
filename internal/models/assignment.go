package models

import (
	"time"
)

// Assignment is a gradable task with a deadline, point value and attempt quota.
// Points and NumOfAttempts are constrained to [1,10]; Deadline is stored in UTC.
type Assignment struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Points        int        `json:"points" db:"points"`
	NumOfAttempts int        `json:"num_of_attempts" db:"num_of_attempts"`
	Deadline      time.Time  `json:"deadline" db:"deadline"`
	CreatedBy     string     `json:"-" db:"created_by"`
	CreatedAt     time.Time  `json:"assignment_created" db:"created_at"`
	UpdatedAt     *time.Time `json:"assignment_updated" db:"updated_at"`
}
