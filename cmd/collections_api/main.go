package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/collections_engine/audit"
	"github.com/collections-workflow/internal/collections_engine/importer"
	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/config"
	"github.com/collections-workflow/internal/dashboard_api"
	"github.com/collections-workflow/internal/dashboard_api/handler"
	"github.com/collections-workflow/internal/dashboard_api/service"
	"github.com/collections-workflow/internal/data/fixtures"
	"github.com/collections-workflow/internal/data/mongo"
	"github.com/collections-workflow/internal/data/postgres"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/letters"
	"github.com/collections-workflow/internal/logger"
	"github.com/collections-workflow/internal/platform/messaging/consumers"
	"github.com/collections-workflow/internal/platform/messaging/producers"
	"github.com/collections-workflow/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("collections_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Collections API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"import_source", cfg.Import.Source,
		"audit_enabled", cfg.Audit.Enabled,
	)

	var (
		dependencies []handler.Dependency
		sinks        []actionlog.Sink
		archive      service.ArchiveReader
		dlq          producers.DeadLetterPublisher
	)

	// The DLQ serves both the import consumer and failed audit deliveries,
	// and is only opened when Kafka is already in use
	if cfg.Import.Source == config.ImportSourceKafka || cfg.AuditSinkEnabled(config.AuditSinkKafka) {
		dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize DLQ Kafka producer", "error", err)
			os.Exit(1)
		}
		// nil when KAFKA_DLQ_TOPIC is empty; keep the interface nil too
		if dlqProducer != nil {
			dlq = dlqProducer
			defer closeWithLog(log, "DLQ producer", dlqProducer.Close)
		}
	}

	// Audit sinks
	var mongoDB *persistence.MongoDB
	if cfg.AuditSinkEnabled(config.AuditSinkMongo) {
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		actionLogRepo := mongo.NewActionLogRepository(log, mongoDB.Collection(cfg.MongoDB.ActionLogCollection))
		if err := actionLogRepo.EnsureIndexes(appCtx); err != nil {
			log.Error("Failed to create action log indexes", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, actionLogRepo)
		archive = actionLogRepo
		dependencies = append(dependencies, mongoDB)
	}

	var actionLogProducer *producers.ActionLogProducer
	if cfg.AuditSinkEnabled(config.AuditSinkKafka) {
		actionLogProducer, err = producers.NewActionLogProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize action log Kafka producer", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, actionLogProducer)
	}

	// Record store, observed by the audit dispatcher when export is on
	storeOpts := []store.Option{store.WithTransitionPolicy(transitionPolicy(cfg))}

	var dispatcher *audit.Dispatcher
	if cfg.Audit.Enabled {
		dispatcher, err = audit.NewDispatcher(log, audit.Config{
			PoolSize:        cfg.Audit.WorkerPoolSize,
			DeliveryTimeout: cfg.Audit.DeliveryTimeout,
		}, dlq, sinks...)
		if err != nil {
			log.Error("Failed to initialize audit dispatcher", "error", err)
			os.Exit(1)
		}
		storeOpts = append(storeOpts, store.WithObserver(dispatcher))
	}

	recordStore := store.New(log, storeOpts...)
	borrowerImporter := importer.NewImporter(log, recordStore, dlq, "")

	// Import the portfolio
	var (
		postgresDB    *persistence.PostgresDB
		kafkaConsumer *consumers.KafkaConsumer
	)
	switch cfg.Import.Source {
	case config.ImportSourceFixtures:
		portfolio := fixtures.NewPortfolio()
		if _, err := borrowerImporter.ImportFrom(appCtx, config.ImportSourceFixtures, portfolio); err != nil {
			log.Error("Failed to import fixture portfolio", "error", err)
			os.Exit(1)
		}
		recordStore.RestoreLogs(portfolio.HistoricLogs()...)

	case config.ImportSourcePostgres:
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		dependencies = append(dependencies, postgresDB)
		borrowerRepo := postgres.NewBorrowerRepository(log, postgresDB)
		if _, err := borrowerImporter.ImportFrom(appCtx, config.ImportSourcePostgres, borrowerRepo); err != nil {
			log.Error("Failed to import borrowers from PostgreSQL", "error", err)
			os.Exit(1)
		}

	case config.ImportSourceKafka:
		kafkaConsumer = consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)
		if err := kafkaConsumer.Subscribe(appCtx, borrowerImporter.HandleMessage); err != nil {
			log.Error("Failed to subscribe to borrower import topic", "error", err)
			os.Exit(1)
		}
	}

	// Background jobs
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.NewDaysTicker(log, recordStore, cfg.Workflow.DaysTickInterval).Start(appCtx)
	}()

	// Initialize services
	letterGenerator := letters.NewGenerator(log, letters.Config{
		CompanyName:    cfg.Letters.CompanyName,
		CompanyAddress: cfg.Letters.CompanyAddress,
		ContactPhone:   cfg.Letters.ContactPhone,
		CurrencyPrefix: cfg.Letters.CurrencyPrefix,
	})
	performer := actions.NewPerformer(log, recordStore, letterGenerator)

	svc := dashboard_api.Services{
		Borrowers:    service.NewBorrowerService(recordStore),
		Actions:      service.NewActionService(recordStore, performer, letterGenerator),
		Reports:      service.NewReportService(recordStore),
		Archive:      archive,
		Store:        recordStore,
		Dependencies: dependencies,
	}
	if dispatcher != nil {
		svc.Audit = dispatcher
	}

	// Initialize REST server
	server := dashboard_api.NewServer(log, cfg, svc)
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

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests first so no new entries are committed
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	// Stop the ticker and the import consumer
	cancelAppCtx()
	wg.Wait()
	if kafkaConsumer != nil {
		<-kafkaConsumer.Done()
		closeWithLog(log, "Kafka consumer", kafkaConsumer.Close)
	}

	// Drain pending audit deliveries before closing the sinks
	if dispatcher != nil {
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			log.Error("Audit deliveries still pending at shutdown", "error", err)
			shutdownErr = err
		}
	}
	if actionLogProducer != nil {
		closeWithLog(log, "action log producer", actionLogProducer.Close)
	}
	if mongoDB != nil {
		if err := mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}
	if postgresDB != nil {
		postgresDB.Close()
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}

func transitionPolicy(cfg *config.Config) workflow.TransitionPolicy {
	if cfg.Workflow.EnforceTransitions {
		return workflow.PolicyStrict
	}
	return workflow.PolicyPermissive
}

func closeWithLog(log *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Error("Error closing "+name, "error", err)
	}
}
