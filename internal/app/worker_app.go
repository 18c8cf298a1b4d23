package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/config"
	"github.com/ymayank97/EduGenix/internal/mailer"
	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/repository"
	"github.com/ymayank97/EduGenix/internal/storage"
	"github.com/ymayank97/EduGenix/internal/worker"
	"github.com/ymayank97/EduGenix/internal/worker/queue"
)

// WorkerApp is the notification worker process: it consumes submission
// events and runs the fetch/store/mail/record pipeline. A small HTTP server
// exposes health and metrics.
type WorkerApp struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	queueConn *queue.Connection
	notifier  worker.NotificationWorker
}

func NewWorker(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*WorkerApp, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sink := metrics.NewPrometheusSink(registry)

	queueConn, err := queue.NewConnection(cfg.RabbitMQ.URL, log)
	if err != nil {
		return nil, err
	}

	if err := queueConn.SetupQueue(
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.RoutingKey,
	); err != nil {
		queueConn.Close()
		return nil, err
	}

	consumer := queue.NewRabbitMQConsumer(
		queueConn.Channel(),
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.ConsumerTag,
		log,
	)

	store, err := storage.NewMinIOStorage(cfg.Storage)
	if err != nil {
		queueConn.Close()
		return nil, err
	}

	mail, err := mailer.NewSMTPMailer(cfg.Mail, log)
	if err != nil {
		queueConn.Close()
		return nil, err
	}

	statusRepo := repository.NewStatusRepository(db, log)
	fetcher := worker.NewHTTPFetcher(cfg.Worker.FetchTimeout, log)
	pool := worker.NewWorkerPool(cfg.Worker.MaxWorkers, log)

	notifier := worker.NewNotificationWorker(
		pool,
		consumer,
		fetcher,
		store,
		mail,
		statusRepo,
		sink,
		cfg.Storage.Bucket,
		log,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    cfg.Worker.MetricsAddress,
		Handler: mux,
	}

	return &WorkerApp{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		queueConn: queueConn,
		notifier:  notifier,
	}, nil
}

func (a *WorkerApp) Run(ctx context.Context) error {
	if err := a.notifier.Start(ctx); err != nil {
		return err
	}

	a.logger.Info().Msgf("Worker metrics server listening on %s", a.config.Worker.MetricsAddress)
	return a.server.ListenAndServe()
}

func (a *WorkerApp) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down notification worker...")

	if err := a.notifier.Stop(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to stop notification worker")
	}

	if a.queueConn != nil {
		if err := a.queueConn.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown metrics server")
		return err
	}

	a.logger.Info().Msg("Notification worker stopped")
	return nil
}
