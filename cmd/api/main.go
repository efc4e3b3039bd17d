package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/config"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/internal/infrastructure/database"
	"github.com/sangkips/retail-ledger/internal/infrastructure/repository"
	"github.com/sangkips/retail-ledger/internal/presentation/http/handler"
	"github.com/sangkips/retail-ledger/internal/presentation/http/routes"
	"github.com/sangkips/retail-ledger/pkg/logger"
	"github.com/sangkips/retail-ledger/pkg/utils"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.ApplyLedgerGuards(db); err != nil {
		log.Error("failed to install ledger guards", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.SeedDefaultData(db); err != nil {
		log.Warn("failed to seed default data", slog.Any("error", err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	txManager := repository.NewTxManager(db, repository.TxOptions{
		LockTimeout:  cfg.Ledger.LockTimeout,
		MaxAttempts:  cfg.Ledger.MaxAttempts,
		RetryBackoff: cfg.Ledger.RetryBackoff,
	}, log)

	// Repositories
	sessionRepo := repository.NewSessionRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	creditRepo := repository.NewCreditAccountRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	reconciliationRepo := repository.NewReconciliationRepository(db)
	priceListRepo := repository.NewPriceListRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	authz := service.NewPermissionAuthorizer()
	priceService := service.NewPriceListService(txManager, priceListRepo, productRepo, log)
	stockService := service.NewStockService(txManager, productRepo, movementRepo, priceService, log)
	reconciliationService := service.NewReconciliationService(txManager, reconciliationRepo, productRepo, stockService, log)
	sessionService := service.NewSessionService(txManager, sessionRepo, log)
	salesService := service.NewSalesService(txManager, sessionRepo, receiptRepo, orderRepo, productRepo, movementRepo, stockService, priceService, authz, log)
	paymentService := service.NewPaymentService(txManager, receiptRepo, orderRepo, paymentRepo, creditRepo, authz, log)

	handlers := &routes.Handlers{
		Health:         handler.NewHealthHandler(db, cfg.App.Name),
		Session:        handler.NewSessionHandler(sessionService, salesService),
		Receipt:        handler.NewReceiptHandler(salesService),
		Payment:        handler.NewPaymentHandler(paymentService),
		Inventory:      handler.NewInventoryHandler(stockService, priceService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

	go func() {
		log.Info("starting server", slog.String("service", cfg.App.Name), slog.String("port", port), slog.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("close database", slog.Any("error", err))
		}
	}
	log.Info("server stopped")
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn("failed to purge idempotency keys", slog.Any("error", err))
			}
		}
	}
}
