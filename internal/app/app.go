package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/config"
	"github.com/ymayank97/EduGenix/internal/delivery/httpd"
	"github.com/ymayank97/EduGenix/internal/events"
	"github.com/ymayank97/EduGenix/internal/identity"
	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/repository"
	"github.com/ymayank97/EduGenix/internal/service"
)

// App is the API process: HTTP surface, Postgres, and the event publisher.
// The notification worker runs as a separate process, see WorkerApp.
type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher events.Publisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sink := metrics.NewPrometheusSink(registry)

	publisher, err := events.NewRabbitMQPublisher(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.RoutingKey,
		cfg.RabbitMQ.QueueName,
		log,
	)
	if err != nil {
		// Admission must keep working when the broker is down; publishes
		// fail individually and get logged.
		log.Error().Err(err).Msg("Failed to create event publisher, events will be dropped")
		publisher = events.NewNoopPublisher(log)
	}

	userRepo := repository.NewUserRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)

	identityService := identity.NewService(userRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, log)
	submissionService := service.NewSubmissionService(
		assignmentRepo,
		submissionRepo,
		publisher,
		sink,
		log,
	)

	if cfg.Seed.UsersCSV != "" {
		seeded, err := identity.SeedUsersFromCSV(context.Background(), cfg.Seed.UsersCSV, userRepo, log)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Seed.UsersCSV).Msg("Failed to seed user accounts")
		} else if seeded > 0 {
			log.Info().Int("count", seeded).Msg("Seeded user accounts")
		}
	}

	handler := httpd.NewHandler(
		assignmentService,
		submissionService,
		identityService,
		db,
		sink,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting API server on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down API server...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
