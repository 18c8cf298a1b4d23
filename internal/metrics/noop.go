package metrics

import "time"

// NoopSink discards all metrics. Used in tests and when metrics are disabled.
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (*NoopSink) APIRequest(string)                         {}
func (*NoopSink) SubmissionOutcome(string)                  {}
func (*NoopSink) PublishResult(bool)                        {}
func (*NoopSink) WorkerOutcome(string)                      {}
func (*NoopSink) WorkerStageDuration(string, time.Duration) {}
func (*NoopSink) MailResult(string)                         {}
