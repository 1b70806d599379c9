package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingapp "github.com/silverledger/backend/internal/application/billing"
	customerapp "github.com/silverledger/backend/internal/application/customer"
	identityapp "github.com/silverledger/backend/internal/application/identity"
	inventoryapp "github.com/silverledger/backend/internal/application/inventory"
	ledgerapp "github.com/silverledger/backend/internal/application/ledger"
	paymentapp "github.com/silverledger/backend/internal/application/payment"
	rateapp "github.com/silverledger/backend/internal/application/rate"
	reportapp "github.com/silverledger/backend/internal/application/report"
	"github.com/silverledger/backend/internal/infrastructure/auth"
	"github.com/silverledger/backend/internal/infrastructure/cache"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/infrastructure/persistence"
	"github.com/silverledger/backend/internal/infrastructure/ratefeed"
	"github.com/silverledger/backend/internal/infrastructure/scheduler"
	"github.com/silverledger/backend/internal/infrastructure/telemetry"
	"github.com/silverledger/backend/internal/interfaces/http/middleware"
	"github.com/silverledger/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Silver Ledger API
//	@version		1.0
//	@description	Billing, ledger and balance service for a silver jewellery shop
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting silver ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.Driver), log)
	if err := tracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	dbMetrics, err := telemetry.NewDBMetrics(meter, sqlDB, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Fatal("Failed to create database metrics", zap.Error(err))
	}
	if err := dbMetrics.Register(db.DB); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	shopMetrics, err := telemetry.NewShopMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to create shop metrics", zap.Error(err))
	}

	cacheFactory := cache.NewFactory(cfg, cache.WithLogger(log))
	defer func() { _ = cacheFactory.Close() }()
	idempotencyStore := cacheFactory.IdempotencyStore(ctx)
	defer func() { _ = idempotencyStore.Close() }()
	locker, err := cacheFactory.Locker(ctx)
	if err != nil {
		log.Fatal("Failed to create key locker", zap.Error(err))
	}

	scope := persistence.NewGormTransactionScope(db.DB, persistence.RetryPolicy{
		MaxAttempts: cfg.Billing.MaxRetries,
		Backoff:     cfg.Billing.RetryBackoff,
	})
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	rateRepo := persistence.NewGormRateRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	customerService := customerapp.NewService(scope, locker, customerRepo, log)
	reportService := reportapp.NewService(billRepo, customerRepo)
	rateService := rateapp.NewService(rateRepo, newRateFeed(cfg.RateFeed, log), rateapp.Config{
		DefaultRate: decimal.NewFromFloat(cfg.RateFeed.DefaultRate),
		MaxDelta:    cfg.RateFeed.MaxDelta,
	}, log)

	services := router.Services{
		Auth:      identityapp.NewAuthService(userRepo, jwtService, log),
		Customers: customerService,
		Bills: billingapp.NewService(scope, locker, billRepo, log,
			billingapp.WithTolerance(decimal.NewFromFloat(cfg.Billing.AmountTolerance)),
			billingapp.WithObserver(shopMetrics),
		),
		Payments:  paymentapp.NewService(scope, locker, paymentRepo, shopMetrics, log),
		Ledger:    ledgerapp.NewService(scope, locker, customerRepo, ledgerRepo, log),
		Inventory: inventoryapp.NewService(scope, locker, stockRepo, log),
		Rates:     rateService,
		Reports:   reportService,
	}

	jobs := scheduler.NewScheduler(log)
	if cfg.RateFeed.Enabled {
		if err := scheduler.RegisterRateRefresh(jobs, rateService, cfg.RateFeed.Interval); err != nil {
			log.Fatal("Failed to schedule rate refresh", zap.Error(err))
		}
	}
	if cfg.Audit.Enabled {
		if err := scheduler.RegisterLedgerAudit(jobs, customerService, shopMetrics, cfg.Audit.Interval); err != nil {
			log.Fatal("Failed to schedule ledger audit", zap.Error(err))
		}
	}
	if meterProvider.IsEnabled() {
		if err := scheduler.RegisterOutstandingSnapshot(jobs, reportService, shopMetrics, cfg.Telemetry.StatsInterval); err != nil {
			log.Fatal("Failed to schedule outstanding snapshot", zap.Error(err))
		}
		if err := scheduler.RegisterPoolStats(jobs, dbMetrics, cfg.Telemetry.StatsInterval); err != nil {
			log.Fatal("Failed to schedule pool stats", zap.Error(err))
		}
	}
	if err := jobs.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine, stopLimiters := router.New(router.Options{
		Config:      cfg,
		Logger:      log,
		Meter:       meter,
		Idempotency: idempotencyStore,
		DB:          db,
		Version:     version,
	}, services)
	defer stopLimiters()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newRateFeed returns the live feed client when a URL is configured, or nil
// so the rate service falls back to its simulated walk
func newRateFeed(cfg config.RateFeedConfig, log *zap.Logger) rateapp.Feed {
	if cfg.URL == "" {
		return nil
	}
	client, err := ratefeed.NewClient(cfg)
	if err != nil {
		log.Warn("Rate feed disabled", zap.Error(err))
		return nil
	}
	return client
}
