package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink on the Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	apiRequestsTotal    *prometheus.CounterVec
	submissionOutcomes  *prometheus.CounterVec
	publishResultsTotal *prometheus.CounterVec
	workerOutcomesTotal *prometheus.CounterVec
	workerStageDuration *prometheus.HistogramVec
	mailResultsTotal    *prometheus.CounterVec
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}

	s.apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edugenix_api_requests_total",
		Help: "Total number of API requests by endpoint.",
	}, []string{"endpoint"})

	s.submissionOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edugenix_submission_outcomes_total",
		Help: "Total number of submission admission decisions by outcome.",
	}, []string{"outcome"})

	s.publishResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edugenix_event_publish_total",
		Help: "Total number of event publish attempts by result.",
	}, []string{"result"})

	s.workerOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edugenix_worker_invocations_total",
		Help: "Total number of worker invocations by outcome.",
	}, []string{"outcome"})

	s.workerStageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "edugenix_worker_stage_duration_seconds",
		Help:    "Duration of each worker pipeline stage in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})

	s.mailResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edugenix_mail_deliveries_total",
		Help: "Total number of mail deliveries by status.",
	}, []string{"status"})

	s.register(reg, s.apiRequestsTotal, "edugenix_api_requests_total")
	s.register(reg, s.submissionOutcomes, "edugenix_submission_outcomes_total")
	s.register(reg, s.publishResultsTotal, "edugenix_event_publish_total")
	s.register(reg, s.workerOutcomesTotal, "edugenix_worker_invocations_total")
	s.register(reg, s.workerStageDuration, "edugenix_worker_stage_duration_seconds")
	s.register(reg, s.mailResultsTotal, "edugenix_mail_deliveries_total")

	return s
}

func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) APIRequest(endpoint string) {
	s.apiRequestsTotal.WithLabelValues(endpoint).Inc()
}

func (s *PrometheusSink) SubmissionOutcome(outcome string) {
	s.submissionOutcomes.WithLabelValues(outcome).Inc()
}

func (s *PrometheusSink) PublishResult(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	s.publishResultsTotal.WithLabelValues(result).Inc()
}

func (s *PrometheusSink) WorkerOutcome(outcome string) {
	s.workerOutcomesTotal.WithLabelValues(outcome).Inc()
}

func (s *PrometheusSink) WorkerStageDuration(stage string, d time.Duration) {
	s.workerStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (s *PrometheusSink) MailResult(status string) {
	s.mailResultsTotal.WithLabelValues(status).Inc()
}
