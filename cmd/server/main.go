package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "fleetledger-backend/internal/api/http"
	"fleetledger-backend/internal/config"
	"fleetledger-backend/internal/logger"
	"fleetledger-backend/internal/repository/postgres"
	"fleetledger-backend/internal/security"
	"fleetledger-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FleetLedger Backend Server...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)
	reportSvc := service.NewReportService(
		store.ReportRepository,
		store.CarRepository,
		store.UserRepository,
		emailSvc,
	)
	assignmentSvc := service.NewAssignmentService(
		store.AssignmentRepository,
		store.CarRepository,
		store.UserRepository,
		emailSvc,
	)
	statsSvc := service.NewStatsService(store.ReportRepository, store.CarRepository)
	carSvc := service.NewCarService(store.CarRepository)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize HTTP handlers
	reportHandler := httpapi.NewReportHandler(reportSvc)
	assignmentHandler := httpapi.NewAssignmentHandler(assignmentSvc)
	carHandler := httpapi.NewCarHandler(carSvc, reportSvc)
	statsHandler := httpapi.NewStatsHandler(statsSvc)

	router := httpapi.NewRouter(tokenManager, reportHandler, assignmentHandler, carHandler, statsHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
