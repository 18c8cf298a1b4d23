package models

import "fmt"

// SubmissionAcceptedEvent is the message published once per accepted
// submission. Path encodes {email}/{assignment_id}/{assignment_name}/{attempt}
// where attempt is the number of prior submissions plus one, fixed at publish
// time. The JSON key casing matches the wire format consumed by the worker.
type SubmissionAcceptedEvent struct {
	SubmissionURL string `json:"submission_url"`
	Email         string `json:"email"`
	Path          string `json:"Path"`
}

func SubmissionPath(email, assignmentID, assignmentName string, attempt int) string {
	return fmt.Sprintf("%s/%s/%s/%d", email, assignmentID, assignmentName, attempt)
}
