package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/events"
	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/repository"
)

// SubmissionService admits submissions against assignment rules and fans out
// one notification event per accepted submission.
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID string, submitter *models.User, submissionURL string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, assignmentID string) ([]models.Submission, error)
}

type submissionService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	publisher      events.Publisher
	sink           metrics.Sink
	logger         zerolog.Logger
}

func NewSubmissionService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	publisher events.Publisher,
	sink metrics.Sink,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		publisher:      publisher,
		sink:           sink,
		logger:         logger,
	}
}

// Submit checks preconditions in order, first failure wins: the assignment
// must exist, the URL must be present, the deadline must not have passed and
// an attempt must remain. The attempt check and the insert run atomically in
// the ledger. On success exactly one event is published; publish failures are
// logged and counted but never surfaced and never roll back the submission.
func (s *submissionService) Submit(ctx context.Context, assignmentID string, submitter *models.User, submissionURL string) (*models.Submission, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		s.sink.SubmissionOutcome(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		s.sink.SubmissionOutcome(metrics.OutcomeNotFound)
		return nil, ErrAssignmentNotFound
	}

	if submissionURL == "" {
		s.sink.SubmissionOutcome(metrics.OutcomeInvalidInput)
		return nil, fmt.Errorf("%w: missing submission_url", ErrInvalidInput)
	}

	now := time.Now().UTC()
	if !now.Before(assignment.Deadline) {
		s.sink.SubmissionOutcome(metrics.OutcomeDeadlineExpired)
		return nil, ErrDeadlinePassed
	}

	submission := &models.Submission{
		ID:            uuid.New().String(),
		AssignmentID:  assignmentID,
		SubmissionURL: submissionURL,
		// Overwritten with the first attempt's date inside the ledger when a
		// prior submission exists. Preserved legacy behavior: the first
		// submission's timestamp sticks for every later attempt.
		SubmissionDate: now,
		CreatedAt:      now,
	}

	priorCount, err := s.submissionRepo.CreateWithinQuota(ctx, submission, assignment.NumOfAttempts)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			s.sink.SubmissionOutcome(metrics.OutcomeAttemptsExhausted)
			return nil, ErrNoAttemptsLeft
		}
		s.sink.SubmissionOutcome(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.sink.SubmissionOutcome(metrics.OutcomeAccepted)
	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("assignment_id", assignmentID).
		Int("attempt", priorCount+1).
		Msg("Submission created")

	event := &models.SubmissionAcceptedEvent{
		SubmissionURL: submissionURL,
		Email:         submitter.Email,
		Path:          models.SubmissionPath(submitter.Email, assignmentID, assignment.Name, priorCount+1),
	}

	// Fire-and-forget: the publish failure is the operator's signal, not the
	// caller's problem.
	if err := s.publisher.PublishSubmissionAccepted(ctx, event); err != nil {
		s.sink.PublishResult(false)
		s.logger.Error().Err(err).
			Str("submission_id", submission.ID).
			Msg("Failed to publish submission accepted event")
	} else {
		s.sink.PublishResult(true)
	}

	return submission, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	submissions, err := s.submissionRepo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, nil
}
