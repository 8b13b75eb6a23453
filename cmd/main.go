package main

import (
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/recruitment-service/internal/db"
	"github.com/senyabanana/recruitment-service/internal/handlers"
	"github.com/senyabanana/recruitment-service/internal/notifier"
	"github.com/senyabanana/recruitment-service/internal/repository"
	"github.com/senyabanana/recruitment-service/internal/router"
	"github.com/senyabanana/recruitment-service/internal/router/config"
	"github.com/senyabanana/recruitment-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("error initializing logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	eventQueue := notifier.NewQueueNotifier(logger, 256)
	defer eventQueue.Close()

	applicationRepo := repository.NewPostgresApplicationRepository(dbPool)
	proposalRepo := repository.NewPostgresProposalRepository(dbPool)
	timelineRepo := repository.NewPostgresTimelineRepository(dbPool)
	feedbackRepo := repository.NewPostgresFeedbackRepository(dbPool)
	employeeRepo := repository.NewPostgresEmployeeRepository(dbPool)

	txProvider := db.NewTransactionProvider(dbPool)

	negotiationService := services.NewNegotiationService(txProvider, proposalRepo, eventQueue, logger)
	applicationService := services.NewApplicationService(
		txProvider, applicationRepo, timelineRepo, feedbackRepo, employeeRepo, eventQueue, logger)

	applicationHandler := handlers.NewApplicationHandler(applicationService, logger, 5*time.Second)
	proposalHandler := handlers.NewProposalHandler(negotiationService, logger, 5*time.Second)

	routes := router.InitRoutes(applicationHandler, proposalHandler)

	logger.Infof("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
