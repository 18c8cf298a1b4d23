package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/mailer"
	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/repository"
	"github.com/ymayank97/EduGenix/internal/storage"
	"github.com/ymayank97/EduGenix/internal/worker/queue"
)

// NotificationWorker processes one submission event per invocation:
// fetch artifact, store it, mail the submitter, record an audit row.
// It never retries internally; transient failures are nacked back to the bus
// for redelivery, permanent ones are acked and dropped.
type NotificationWorker interface {
	Start(ctx context.Context) error
	Stop() error
	ProcessEvent(ctx context.Context, body []byte) error
}

type notificationWorker struct {
	pool       *WorkerPool
	consumer   queue.Consumer
	fetcher    ArtifactFetcher
	store      storage.ObjectStorage
	mail       mailer.Mailer
	statusRepo repository.StatusRepository
	sink       metrics.Sink
	bucket     string
	logger     zerolog.Logger
}

func NewNotificationWorker(
	pool *WorkerPool,
	consumer queue.Consumer,
	fetcher ArtifactFetcher,
	store storage.ObjectStorage,
	mail mailer.Mailer,
	statusRepo repository.StatusRepository,
	sink metrics.Sink,
	bucket string,
	logger zerolog.Logger,
) NotificationWorker {
	return &notificationWorker{
		pool:       pool,
		consumer:   consumer,
		fetcher:    fetcher,
		store:      store,
		mail:       mail,
		statusRepo: statusRepo,
		sink:       sink,
		bucket:     bucket,
		logger:     logger,
	}
}

func (w *notificationWorker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting notification worker...")

	if err := w.pool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	msgs, err := w.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	go w.processMessages(ctx, msgs)

	w.logger.Info().Msg("Notification worker started")
	return nil
}

func (w *notificationWorker) Stop() error {
	w.logger.Info().Msg("Stopping notification worker...")

	if err := w.pool.Stop(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to stop worker pool")
	}

	if err := w.consumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close queue consumer")
	}

	return nil
}

func (w *notificationWorker) processMessages(ctx context.Context, msgs <-chan queue.Message) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping message processing")
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn().Msg("Message channel closed")
				return
			}

			w.pool.Submit(func() {
				if err := w.ProcessEvent(ctx, msg.Body); err != nil {
					w.logger.Error().Err(err).Msg("Failed to process event")

					if isPermanentError(err) {
						// No amount of redelivery fixes a malformed event.
						if ackErr := msg.Ack(false); ackErr != nil {
							w.logger.Error().Err(ackErr).Msg("Failed to ack message")
						}
						return
					}

					if nackErr := msg.Nack(false, true); nackErr != nil {
						w.logger.Error().Err(nackErr).Msg("Failed to nack message")
					}
					return
				}

				if err := msg.Ack(false); err != nil {
					w.logger.Error().Err(err).Msg("Failed to ack message")
				}
			})
		}
	}
}

// ProcessEvent runs the pipeline for one delivered event. Each physical run
// gets a fresh invocation id, so a redelivered event leaves a second audit
// row instead of corrupting the first.
func (w *notificationWorker) ProcessEvent(ctx context.Context, body []byte) error {
	invocationID := uuid.New().String()

	var event models.SubmissionAcceptedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.sink.WorkerOutcome(metrics.WorkerOutcomePermanent)
		return permanent(fmt.Errorf("failed to unmarshal event: %w", err))
	}

	if strings.TrimSpace(event.Email) == "" {
		// No recipient to notify and no one to attribute an audit row to.
		w.sink.WorkerOutcome(metrics.WorkerOutcomePermanent)
		return permanent(errors.New("event has no recipient email"))
	}

	if strings.TrimSpace(event.SubmissionURL) == "" {
		err := errors.New("event has no submission_url")
		w.recordFailure(ctx, invocationID, &event, "", err)
		w.sink.WorkerOutcome(metrics.WorkerOutcomePermanent)
		return permanent(err)
	}

	w.logger.Info().
		Str("invocation_id", invocationID).
		Str("path", event.Path).
		Msg("Processing submission event")

	fetchStart := time.Now()
	data, err := w.fetcher.Fetch(ctx, event.SubmissionURL)
	w.sink.WorkerStageDuration(metrics.StageFetch, time.Since(fetchStart))
	if err != nil {
		w.recordFailure(ctx, invocationID, &event, "", err)
		w.sink.WorkerOutcome(metrics.WorkerOutcomeTransient)
		return fmt.Errorf("failed to fetch artifact: %w", err)
	}

	key := event.Path + "/" + artifactName(event.SubmissionURL)

	uploadStart := time.Now()
	err = w.store.Put(ctx, key, data, "application/zip")
	w.sink.WorkerStageDuration(metrics.StageUpload, time.Since(uploadStart))
	if err != nil {
		w.recordFailure(ctx, invocationID, &event, key, err)
		w.sink.WorkerOutcome(metrics.WorkerOutcomeTransient)
		return fmt.Errorf("failed to upload artifact: %w", err)
	}

	notificationBody := w.composeBody(event.Path, key)

	// Delivery failure is recorded, never fatal: the audit row still lands.
	deliveryStatus := models.DeliveryStatusSent
	mailStart := time.Now()
	if mailErr := w.mail.Send(ctx, event.Email, "Submission Received", notificationBody); mailErr != nil {
		w.logger.Error().Err(mailErr).
			Str("invocation_id", invocationID).
			Msg("Failed to send submission notification")
		deliveryStatus = models.DeliveryStatusFailed
	}
	w.sink.WorkerStageDuration(metrics.StageMail, time.Since(mailStart))
	w.sink.MailResult(deliveryStatus)

	recordStart := time.Now()
	status := &models.NotificationStatus{
		InvocationID:   invocationID,
		Email:          event.Email,
		DeliveryStatus: deliveryStatus,
		SubmissionURL:  event.SubmissionURL,
		StorageKey:     key,
		Body:           notificationBody,
		CreatedAt:      time.Now().UTC(),
	}
	err = w.statusRepo.Create(ctx, status)
	w.sink.WorkerStageDuration(metrics.StageRecord, time.Since(recordStart))
	if err != nil {
		w.sink.WorkerOutcome(metrics.WorkerOutcomeTransient)
		return fmt.Errorf("failed to record notification status: %w", err)
	}

	w.sink.WorkerOutcome(metrics.WorkerOutcomeProcessed)
	w.logger.Info().
		Str("invocation_id", invocationID).
		Str("storage_key", key).
		Str("delivery_status", deliveryStatus).
		Msg("Submission event processed")

	return nil
}

// recordFailure sends a best-effort failure mail and writes a Failed audit
// row. Errors here are logged only: the original failure is what the caller
// reports.
func (w *notificationWorker) recordFailure(ctx context.Context, invocationID string, event *models.SubmissionAcceptedEvent, key string, cause error) {
	body := failureBody(cause)

	if mailErr := w.mail.Send(ctx, event.Email, "Submission Failed", body); mailErr != nil {
		w.logger.Error().Err(mailErr).
			Str("invocation_id", invocationID).
			Msg("Failed to send failure notification")
	}

	status := &models.NotificationStatus{
		InvocationID:   invocationID,
		Email:          event.Email,
		DeliveryStatus: models.DeliveryStatusFailed,
		SubmissionURL:  event.SubmissionURL,
		StorageKey:     key,
		Body:           body,
		CreatedAt:      time.Now().UTC(),
	}
	if err := w.statusRepo.Create(ctx, status); err != nil {
		w.logger.Error().Err(err).
			Str("invocation_id", invocationID).
			Msg("Failed to record failure status")
	}
}

func failureBody(cause error) string {
	return "Your submission has failed.\nError: " + cause.Error()
}

// composeBody builds the submitter-facing notification from the event path
// ({email}/{assignment_id}/{assignment_name}/{attempt}) and the storage key.
func (w *notificationWorker) composeBody(eventPath, key string) string {
	parts := strings.Split(eventPath, "/")
	attempt := parts[len(parts)-1]
	assignmentName := ""
	if len(parts) > 2 {
		assignmentName = parts[2]
	}

	return fmt.Sprintf(
		"Hello,\n\nYour submission number : %s for the assignment : %s has been stored in the bucket : %s.\n\n Path to the file: %s.\n\n\nThank you!",
		attempt, assignmentName, w.bucket, key,
	)
}

func artifactName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return permanentError{err: err}
}

func isPermanentError(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}
