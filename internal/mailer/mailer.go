package mailer

import (
	"context"
)

// Mailer sends plain-text notifications. An error means delivery failed; the
// caller decides whether that aborts anything (for the worker it never does).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
