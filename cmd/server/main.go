package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbanking "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/banking"
	appledger "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/ledger"
	appreconciliation "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/reconciliation"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/auth"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/cache"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/config"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/logger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/handler"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	debtorRepo := persistence.NewGormDebtorRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	boletoRepo := persistence.NewGormBoletoRepository(db.DB)
	accountRepo := persistence.NewGormBankAccountRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	cardTxRepo := persistence.NewGormCardTransactionRepository(db.DB)
	feeConfigRepo := persistence.NewGormCardFeeConfigRepository(db.DB)
	reconciliationRepo := persistence.NewGormReconciliationRepository(db.DB)

	// Idempotency store for card settlement. Falls back to an in-memory
	// store when Redis is disabled.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Application services
	debtorService := appledger.NewDebtorService(debtorRepo, receivableRepo, boletoRepo, db)
	receivableService := appledger.NewReceivableService(
		debtorRepo, receivableRepo, boletoRepo,
		accountRepo, txRepo, cardTxRepo, feeConfigRepo,
		db, log,
	)
	boletoService := appledger.NewBoletoService(
		debtorRepo, receivableRepo, boletoRepo,
		accountRepo, txRepo,
		db, log,
	)
	bankAccountService := appbanking.NewBankAccountService(accountRepo, txRepo, db, log)
	cardService := appbanking.NewCardSettlementService(
		cardTxRepo, feeConfigRepo, accountRepo, txRepo, receivableRepo,
		idempotencyStore, cfg.Ledger.SettlementKeyTTL,
		db, log,
	)
	reconciliationService := appreconciliation.NewReconciliationService(
		reconciliationRepo, accountRepo, txRepo,
		cfg.Ledger.ReconciliationToleranceDays,
		db, log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(cfg, jwtService, log, router.Handlers{
		System:         handler.NewSystemHandler(db.DB, cfg.App.Name, cfg.App.Env),
		Debtor:         handler.NewDebtorHandler(debtorService, log),
		Receivable:     handler.NewReceivableHandler(receivableService, log),
		Boleto:         handler.NewBoletoHandler(boletoService, log),
		BankAccount:    handler.NewBankAccountHandler(bankAccountService, log),
		Card:           handler.NewCardHandler(cardService, log),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService, log),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
