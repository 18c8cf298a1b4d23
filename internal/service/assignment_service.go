package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/repository"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, userID string, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignmentByID(ctx context.Context, id string) (*models.Assignment, error)
	GetAllAssignments(ctx context.Context) ([]models.Assignment, error)
	UpdateAssignment(ctx context.Context, id, userID string, req *models.CreateAssignmentRequest) error
	DeleteAssignment(ctx context.Context, id, userID string) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	logger         zerolog.Logger
}

func NewAssignmentService(assignmentRepo repository.AssignmentRepository, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

func validateAssignmentRequest(req *models.CreateAssignmentRequest) (time.Time, error) {
	if req.Name == "" || req.Points == 0 || req.NumOfAttempts == 0 || req.Deadline == "" {
		return time.Time{}, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if req.Points < 1 || req.Points > 10 {
		return time.Time{}, fmt.Errorf("%w: points must be between 1 and 10", ErrInvalidInput)
	}
	if req.NumOfAttempts < 1 || req.NumOfAttempts > 10 {
		return time.Time{}, fmt.Errorf("%w: number of attempts must be between 1 and 10", ErrInvalidInput)
	}

	deadline, err := models.ParseDeadline(req.Deadline)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid deadline format", ErrInvalidInput)
	}

	return deadline, nil
}

func (s *assignmentService) CreateAssignment(ctx context.Context, userID string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	deadline, err := validateAssignmentRequest(req)
	if err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Points:        req.Points,
		NumOfAttempts: req.NumOfAttempts,
		Deadline:      deadline,
		CreatedBy:     userID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID).
		Str("name", assignment.Name).
		Msg("Assignment created")

	return assignment, nil
}

func (s *assignmentService) GetAssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	return assignment, nil
}

func (s *assignmentService) GetAllAssignments(ctx context.Context) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	return assignments, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, id, userID string, req *models.CreateAssignmentRequest) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return ErrAssignmentNotFound
	}
	if assignment.CreatedBy != userID {
		return ErrForbidden
	}

	deadline, err := validateAssignmentRequest(req)
	if err != nil {
		return err
	}

	assignment.Name = req.Name
	assignment.Points = req.Points
	assignment.NumOfAttempts = req.NumOfAttempts
	assignment.Deadline = deadline

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	s.logger.Info().Str("assignment_id", id).Msg("Assignment updated")
	return nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, id, userID string) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return ErrAssignmentNotFound
	}
	if assignment.CreatedBy != userID {
		return ErrForbidden
	}

	// Submissions go with the assignment, atomically.
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	s.logger.Info().Str("assignment_id", id).Msg("Assignment deleted")
	return nil
}
