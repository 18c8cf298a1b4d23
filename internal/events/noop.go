package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/models"
)

var ErrPublisherUnavailable = errors.New("event publisher is unavailable")

// NoopPublisher stands in when the broker is unreachable at startup so the
// API keeps admitting submissions. Every publish fails and gets counted.
type NoopPublisher struct {
	logger zerolog.Logger
}

func NewNoopPublisher(logger zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) PublishSubmissionAccepted(ctx context.Context, event *models.SubmissionAcceptedEvent) error {
	p.logger.Warn().Str("path", event.Path).Msg("Dropping event, publisher unavailable")
	return ErrPublisherUnavailable
}

func (p *NoopPublisher) Close() error {
	return nil
}
