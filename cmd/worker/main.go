package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ymayank97/EduGenix/internal/app"
	"github.com/ymayank97/EduGenix/internal/config"
	"github.com/ymayank97/EduGenix/internal/database"
	"github.com/ymayank97/EduGenix/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	log.Info().Msg("Database connection established")

	workerApp, err := app.NewWorker(cfg, log, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	go func() {
		if err := workerApp.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run worker")
		}
	}()

	log.Info().Msg("Notification worker started")

	<-ctx.Done()
	log.Info().Msg("Shutting down notification worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := workerApp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Notification worker stopped")
}
