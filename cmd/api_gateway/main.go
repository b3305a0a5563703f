package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/realestate-cashflow/internal/api_gateway"
	"github.com/realestate-cashflow/internal/api_gateway/service"
	"github.com/realestate-cashflow/internal/config"
	"github.com/realestate-cashflow/internal/data/mongo"
	"github.com/realestate-cashflow/internal/data/postgres"
	"github.com/realestate-cashflow/internal/logger"
	"github.com/realestate-cashflow/internal/platform/messaging/producers"
	"github.com/realestate-cashflow/internal/platform/notification"
	"github.com/realestate-cashflow/internal/platform/persistence"
	"github.com/realestate-cashflow/internal/reporting"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context; PostgreSQL migrations run here
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Close requests are published synchronously so the 202 means the broker has them
	requestProducer, err := producers.NewTopicProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.CloseRequestTopic, false)
	if err != nil {
		log.Error("Failed to initialize close request producer", "error", err)
		os.Exit(1)
	}

	eventProducer, err := producers.NewTopicProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.CloseEventTopic, true)
	if err != nil {
		log.Error("Failed to initialize close event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	lookupRepo := postgres.NewLookupRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	closeRepo := mongo.NewCloseRepository(log, mongoDB.Database())
	if err := closeRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure close snapshot indexes", "error", err)
		os.Exit(1)
	}

	// Initialize reporting core
	resolver := reporting.NewLookupResolver(log, lookupRepo, reporting.NewLookupCache())
	aggregator := reporting.NewAggregator(log, ledgerRepo)
	closer := reporting.NewCloser(log,
		reporting.NewComposer(log, resolver, aggregator, lookupRepo, ledgerRepo),
		reporting.NewLegacyGenerator(log, resolver, aggregator, ledgerRepo),
		closeRepo,
		notification.NewEventNotifier(log, eventProducer),
		notification.NewEmailNotifier(log, &cfg.Email),
	)

	// Initialize services
	services := api_gateway.Services{
		Reports:       service.NewReportService(log, closer),
		CloseRequests: service.NewCloseRequestService(log, requestProducer),
		Health: service.NewHealthService(log, map[string]service.Pinger{
			"postgres": postgresDB,
			"mongodb":  mongoDB,
		}),
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence: stop accepting requests before closing their dependencies
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = requestProducer.Close(); err != nil {
		log.Error("Error closing close request producer", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing close event producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
