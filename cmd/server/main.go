package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"

	httpapi "evstation-backend/internal/api/http"
	"evstation-backend/internal/assistant"
	"evstation-backend/internal/config"
	"evstation-backend/internal/jobs"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/payment"
	"evstation-backend/internal/repository/postgres"
	"evstation-backend/internal/scheduler"
	"evstation-backend/internal/security"
	"evstation-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EV Station Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Payment Gateway Client
	gateway := payment.NewPayOSClient(cfg.PayOS.BaseURL, cfg.PayOS.ClientID, cfg.PayOS.APIKey, cfg.PayOS.ChecksumKey)

	// Initialize Assistant
	kb, err := assistant.LoadKnowledgeBase(cfg.Assistant.KnowledgeBasePath)
	if err != nil {
		logger.Error("Failed to load knowledge base", "path", cfg.Assistant.KnowledgeBasePath, "error", err)
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	model := assistant.NewGeminiClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey, cfg.Assistant.Model)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository, emailSvc)
	stationSvc := service.NewStationService(store.StationRepository, store.VehicleRepository)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository, store.StationRepository, store.RentalRepository)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.VehicleRepository,
		store.StationRepository,
		store.UserRepository,
		emailSvc,
	)
	paymentSvc := service.NewPaymentService(
		store.RentalRepository,
		store.VehicleRepository,
		store.UserRepository,
		gateway,
		emailSvc,
		cfg.PayOS.ChecksumKey,
		cfg.PayOS.FrontendURL,
	)
	contractSvc := service.NewContractService(
		store.RentalRepository,
		store.VehicleRepository,
		store.StationRepository,
		store.UserRepository,
		paymentSvc,
	)
	reportSvc := service.NewReportService(store.ReportRepository, store.VehicleRepository)
	assistantSvc := service.NewAssistantService(model, kb, store.VehicleRepository, store.StationRepository)

	// Start the cron scheduler alongside the API server
	jobRunner := jobs.NewJobRunner(store, &jobs.Services{Payment: paymentSvc, Email: emailSvc}, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:      authSvc,
		User:      userSvc,
		Station:   stationSvc,
		Vehicle:   vehicleSvc,
		Rental:    rentalSvc,
		Payment:   paymentSvc,
		Contract:  contractSvc,
		Report:    reportSvc,
		Assistant: assistantSvc,
	}, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
