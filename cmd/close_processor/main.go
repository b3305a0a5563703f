package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/realestate-cashflow/internal/close_processor/components"
	"github.com/realestate-cashflow/internal/close_processor/consumer"
	"github.com/realestate-cashflow/internal/close_processor/scheduler"
	"github.com/realestate-cashflow/internal/close_processor/service"
	"github.com/realestate-cashflow/internal/config"
	"github.com/realestate-cashflow/internal/data/mongo"
	"github.com/realestate-cashflow/internal/data/postgres"
	"github.com/realestate-cashflow/internal/logger"
	"github.com/realestate-cashflow/internal/platform/messaging/consumers"
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
	cfg, err := config.LoadConfig("close_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Close Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// The gateway owns the schema; the processor only reads it
	cfg.Postgres.MigrationsPath = ""

	// Initialize databases with app context
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

	// Initialize repositories
	lookupRepo := postgres.NewLookupRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	closeRepo := mongo.NewCloseRepository(log, mongoDB.Database())
	if err := closeRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure close snapshot indexes", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producers
	eventProducer, err := producers.NewTopicProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.CloseEventTopic, true)
	if err != nil {
		log.Error("Failed to initialize close event producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer is nil when no DLQ topic is configured; PublishToDLQ is nil-safe.

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

	// Initialize processing service behind the worker pool
	processingService := components.CreateProcessingService(closer, log, cfg)

	// Initialize close request handler
	closeRequestHandler := consumer.NewCloseRequestHandler(log, processingService, dlqProducer)

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka, cfg.Kafka.CloseRequestTopic)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.CloseRequestTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, closeRequestHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	// Start close scheduler in a goroutine
	if cfg.Scheduler.Enabled {
		closeScheduler, err := scheduler.NewScheduler(&cfg.Scheduler, processingService, log.With("component", "scheduler"))
		if err != nil {
			log.Error("Failed to initialize close scheduler", "error", err)
			os.Exit(1)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			closeScheduler.Start(appCtx)
		}()
	} else {
		log.Info("Close scheduler disabled")
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shutdown the worker pool if it's a WorkerPoolProcessingService
	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		log.Info("Shutting down worker pool", "running_workers", wpService.Running())
		wpService.Shutdown()
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	if err = dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing close event producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Close Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Close Processor shutdown completed with errors")
	} else {
		log.Info("Close Processor shutdown completed successfully")
	}
}
