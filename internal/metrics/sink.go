package metrics

import "time"

// Sink records operational counters. All methods are fire-and-forget:
// implementations must not block or propagate errors.
type Sink interface {
	// API metrics
	APIRequest(endpoint string)
	SubmissionOutcome(outcome string)
	PublishResult(ok bool)

	// Worker metrics
	WorkerOutcome(outcome string)
	WorkerStageDuration(stage string, d time.Duration)
	MailResult(status string)
}

// Outcome constants for SubmissionOutcome.
const (
	OutcomeAccepted          = "accepted"
	OutcomeInvalidInput      = "invalid_input"
	OutcomeNotFound          = "not_found"
	OutcomeDeadlineExpired   = "deadline_expired"
	OutcomeAttemptsExhausted = "attempts_exhausted"
	OutcomeError             = "error"
)

// Outcome constants for WorkerOutcome.
const (
	WorkerOutcomeProcessed = "processed"
	WorkerOutcomePermanent = "permanent_failure"
	WorkerOutcomeTransient = "transient_failure"
)

// Stage constants for WorkerStageDuration.
const (
	StageFetch  = "fetch"
	StageUpload = "upload"
	StageMail   = "mail"
	StageRecord = "record"
)
