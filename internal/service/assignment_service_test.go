package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/models"
)

func newTestAssignmentService(repo *mockAssignmentRepo) AssignmentService {
	return NewAssignmentService(repo, zerolog.Nop())
}

func validRequest() *models.CreateAssignmentRequest {
	return &models.CreateAssignmentRequest{
		Name:          "HW1",
		Points:        5,
		NumOfAttempts: 3,
		Deadline:      time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02T15:04:05.000Z"),
	}
}

func TestCreateAssignment(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)

	assignment, err := svc.CreateAssignment(context.Background(), "owner-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assignment.ID == "" {
		t.Fatal("assignment ID must be set")
	}
	if assignment.CreatedBy != "owner-1" {
		t.Errorf("expected created_by owner-1, got %s", assignment.CreatedBy)
	}
	if _, ok := repo.assignments[assignment.ID]; !ok {
		t.Fatal("assignment was not persisted")
	}
}

func TestCreateAssignmentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateAssignmentRequest)
	}{
		{"missing name", func(r *models.CreateAssignmentRequest) { r.Name = "" }},
		{"zero points", func(r *models.CreateAssignmentRequest) { r.Points = 0 }},
		{"points too high", func(r *models.CreateAssignmentRequest) { r.Points = 11 }},
		{"zero attempts", func(r *models.CreateAssignmentRequest) { r.NumOfAttempts = 0 }},
		{"attempts too high", func(r *models.CreateAssignmentRequest) { r.NumOfAttempts = 11 }},
		{"missing deadline", func(r *models.CreateAssignmentRequest) { r.Deadline = "" }},
		{"bad deadline format", func(r *models.CreateAssignmentRequest) { r.Deadline = "tomorrow" }},
	}

	svc := newTestAssignmentService(newMockAssignmentRepo())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateAssignment(context.Background(), "owner-1", req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGetAssignmentByIDNotFound(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())

	_, err := svc.GetAssignmentByID(context.Background(), "missing")
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestUpdateAssignmentOwnership(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)

	assignment, err := svc.CreateAssignment(context.Background(), "owner-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.UpdateAssignment(context.Background(), assignment.ID, "someone-else", validRequest())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.UpdateAssignment(context.Background(), assignment.ID, "owner-1", validRequest()); err != nil {
		t.Fatalf("owner update should succeed, got %v", err)
	}
}

func TestUpdateAssignmentNotFound(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())

	err := svc.UpdateAssignment(context.Background(), "missing", "owner-1", validRequest())
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestDeleteAssignmentOwnership(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)

	assignment, err := svc.CreateAssignment(context.Background(), "owner-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteAssignment(context.Background(), assignment.ID, "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.DeleteAssignment(context.Background(), assignment.ID, "owner-1"); err != nil {
		t.Fatalf("owner delete should succeed, got %v", err)
	}
	if _, ok := repo.assignments[assignment.ID]; ok {
		t.Fatal("assignment was not deleted")
	}
}
