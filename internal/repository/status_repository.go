package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/models"
)

// StatusRepository is an append-only writer for worker audit rows.
type StatusRepository interface {
	Create(ctx context.Context, status *models.NotificationStatus) error
}

type statusRepository struct {
	*PostgresRepository
}

func NewStatusRepository(db *sql.DB, logger zerolog.Logger) StatusRepository {
	return &statusRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *statusRepository) Create(ctx context.Context, status *models.NotificationStatus) error {
	query := `
		INSERT INTO notification_statuses (invocation_id, email, delivery_status, submission_url, storage_key, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		status.InvocationID,
		status.Email,
		status.DeliveryStatus,
		status.SubmissionURL,
		status.StorageKey,
		status.Body,
		status.CreatedAt,
	)

	return err
}
