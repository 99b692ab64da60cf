package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/billing"
	"github.com/lucabarbieri/gestionale/internal/config"
	"github.com/lucabarbieri/gestionale/internal/fatturapa"
	httpapi "github.com/lucabarbieri/gestionale/internal/interfaces/http"
	"github.com/lucabarbieri/gestionale/internal/repository"
	"github.com/lucabarbieri/gestionale/internal/sepa"
	"github.com/lucabarbieri/gestionale/pkg/database"
	"github.com/lucabarbieri/gestionale/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting billing engine",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Documents.OutputDir, 0o755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	// Initialize repositories
	issuerRepo := repository.NewIssuerRepository(db.DB, logger)
	payerRepo := repository.NewPayerRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	lineItemRepo := repository.NewLineItemRepository(db.DB, logger)
	paymentRepo := repository.NewPaymentRepository(db.DB, logger)
	revenueAccountRepo := repository.NewRevenueAccountRepository(db.DB, logger)

	// Initialize services
	emissionService := billing.NewEmissionService(db, lineItemRepo, invoiceRepo, issuerRepo, logger)
	documentService := billing.NewDocumentService(
		invoiceRepo, lineItemRepo, issuerRepo, payerRepo,
		fatturapa.NewSerializer(logger), cfg.Documents.OutputDir, logger)
	collectionService := billing.NewCollectionService(
		db, lineItemRepo, payerRepo, issuerRepo, paymentRepo,
		sepa.NewBuilder(logger), cfg.Documents.OutputDir, logger)

	// Initialize HTTP server
	handlers := httpapi.NewHandlers(
		emissionService, documentService, collectionService,
		invoiceRepo, cfg.Sepa.CollectionLeadDays, logger)
	registry := httpapi.NewRegistryHandlers(issuerRepo, payerRepo, revenueAccountRepo)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, registry, logger)

	// Run until interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
