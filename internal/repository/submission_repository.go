package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/models"
)

// ErrQuotaExceeded is returned by CreateWithinQuota when the assignment
// already holds num_of_attempts submissions.
var ErrQuotaExceeded = errors.New("submission quota exceeded")

// SubmissionRepository is the attempt ledger: the ordered list of submissions
// per assignment, plus the single write path that admits a new one.
type SubmissionRepository interface {
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	CountByAssignment(ctx context.Context, assignmentID string) (int, error)
	LatestByAssignment(ctx context.Context, assignmentID string) (*models.Submission, error)
	// CreateWithinQuota inserts the submission only while fewer than
	// maxAttempts rows exist for its assignment. The count check and the
	// insert run in one transaction holding a row lock on the assignment,
	// so two concurrent submitters cannot both squeeze past the quota.
	// When a prior submission exists, its submission_date is inherited.
	// Returns the number of submissions that existed before the insert.
	CreateWithinQuota(ctx context.Context, submission *models.Submission, maxAttempts int) (int, error)
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	query := `
		SELECT id, assignment_id, submission_url, submission_date, created_at
		FROM submissions
		WHERE assignment_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var submission models.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.AssignmentID,
			&submission.SubmissionURL,
			&submission.SubmissionDate,
			&submission.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, rows.Err()
}

func (r *submissionRepository) CountByAssignment(ctx context.Context, assignmentID string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE assignment_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&count)
	return count, err
}

func (r *submissionRepository) LatestByAssignment(ctx context.Context, assignmentID string) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, submission_url, submission_date, created_at
		FROM submissions
		WHERE assignment_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.SubmissionURL,
		&submission.SubmissionDate,
		&submission.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) CreateWithinQuota(ctx context.Context, submission *models.Submission, maxAttempts int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Serialize admissions per assignment.
	var lockedID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM assignments WHERE id = $1 FOR UPDATE`,
		submission.AssignmentID,
	).Scan(&lockedID)
	if err != nil {
		return 0, err
	}

	var priorCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE assignment_id = $1`,
		submission.AssignmentID,
	).Scan(&priorCount)
	if err != nil {
		return 0, err
	}

	if priorCount >= maxAttempts {
		return priorCount, ErrQuotaExceeded
	}

	// The first submission's timestamp sticks for every later attempt.
	var firstDate sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT submission_date FROM submissions WHERE assignment_id = $1 ORDER BY created_at DESC LIMIT 1`,
		submission.AssignmentID,
	).Scan(&firstDate)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	if firstDate.Valid {
		submission.SubmissionDate = firstDate.Time
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO submissions (id, assignment_id, submission_url, submission_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		submission.ID,
		submission.AssignmentID,
		submission.SubmissionURL,
		submission.SubmissionDate,
		submission.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	return priorCount, tx.Commit()
}
