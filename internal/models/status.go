package models

import (
	"time"
)

const (
	DeliveryStatusSent   = "Sent"
	DeliveryStatusFailed = "Failed"
)

// NotificationStatus is the audit row written once per worker invocation.
// InvocationID is unique per physical run, so redelivered events produce
// separate rows rather than overwriting each other.
type NotificationStatus struct {
	InvocationID   string    `json:"invocation_id" db:"invocation_id"`
	Email          string    `json:"email" db:"email"`
	DeliveryStatus string    `json:"delivery_status" db:"delivery_status"`
	SubmissionURL  string    `json:"submission_url" db:"submission_url"`
	StorageKey     string    `json:"storage_key" db:"storage_key"`
	Body           string    `json:"body" db:"body"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
