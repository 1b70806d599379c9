package router

import (
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/silverledger/backend/internal/application/billing"
	customerapp "github.com/silverledger/backend/internal/application/customer"
	appidentity "github.com/silverledger/backend/internal/application/identity"
	inventoryapp "github.com/silverledger/backend/internal/application/inventory"
	ledgerapp "github.com/silverledger/backend/internal/application/ledger"
	paymentapp "github.com/silverledger/backend/internal/application/payment"
	rateapp "github.com/silverledger/backend/internal/application/rate"
	reportapp "github.com/silverledger/backend/internal/application/report"
	"github.com/silverledger/backend/internal/domain/identity"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/interfaces/http/handler"
	"github.com/silverledger/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Services are the application services behind the API
type Services struct {
	Auth      *appidentity.AuthService
	Customers *customerapp.Service
	Bills     *billingapp.Service
	Payments  *paymentapp.Service
	Ledger    *ledgerapp.Service
	Inventory *inventoryapp.Service
	Rates     *rateapp.Service
	Reports   *reportapp.Service
}

// Options carry the infrastructure the engine is built on. Meter and
// Idempotency may be nil.
type Options struct {
	Config      *config.Config
	Logger      *zap.Logger
	Meter       metric.Meter
	Idempotency shared.IdempotencyStore
	DB          handler.Pinger
	Version     string
}

// New builds the engine with the middleware chain and every route. The
// returned func stops the rate limiters' cleanup goroutines.
func New(opts Options, svc Services) (*gin.Engine, func()) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var closers []func()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(opts.Meter, log),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		closers = append(closers, limiter.Close)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	health := handler.NewHealthHandler(opts.DB, opts.Version)
	engine.GET("/health", health.Health)

	authHandler := handler.NewAuthHandler(svc.Auth)
	customerHandler := handler.NewCustomerHandler(svc.Customers)
	billHandler := handler.NewBillHandler(svc.Bills)
	paymentHandler := handler.NewPaymentHandler(svc.Payments)
	ledgerHandler := handler.NewLedgerHandler(svc.Ledger)
	inventoryHandler := handler.NewInventoryHandler(svc.Inventory)
	rateHandler := handler.NewRateHandler(svc.Rates)
	reportHandler := handler.NewReportHandler(svc.Reports)

	authRoutes := NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		closers = append(closers, authLimiter.Close)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	staff := NewDomainGroup("staff", "").Use(
		middleware.JWTAuth(svc.Auth, log),
		middleware.RequireRoles(string(identity.RoleAdmin), string(identity.RoleEmployee)),
	)
	staff.GET("/auth/me", authHandler.Me)

	idempotent := idempotencyMiddleware(cfg.Idempotency, opts.Idempotency, log)

	staff.Group("customers", "/customers").
		POST("", customerHandler.Create).
		GET("", customerHandler.List).
		GET("/:id", customerHandler.Get).
		PUT("/:id", customerHandler.Update).
		DELETE("/:id", customerHandler.Delete)

	staff.Group("bills", "/bills").
		POST("", append(idempotent, billHandler.Create)...).
		GET("", billHandler.List).
		GET("/:id", billHandler.Get)

	staff.Group("payments", "/payments").
		POST("", append(idempotent, paymentHandler.Record)...).
		GET("", paymentHandler.List)

	staff.Group("ledger", "/ledger").
		GET("/:customerId", ledgerHandler.Get).
		POST("/:customerId", ledgerHandler.AddEntry)

	staff.Group("inventory", "/inventory").
		GET("", inventoryHandler.Summaries).
		POST("", inventoryHandler.AddStock).
		GET("/movements", inventoryHandler.Movements)

	staff.Group("rates", "/silver-rates").
		GET("", rateHandler.Current).
		POST("", rateHandler.SetManual).
		GET("/history", rateHandler.History)

	staff.Group("reports", "/reports").
		GET("/daily", reportHandler.Daily).
		GET("/outstanding", reportHandler.Outstanding)

	staff.Group("admin", "/admin").
		Use(middleware.RequireRoles(string(identity.RoleAdmin))).
		POST("/reconcile", customerHandler.ReconcileAll).
		POST("/reconcile/:customerId", customerHandler.Reconcile)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(authRoutes).
		Register(staff).
		Setup()

	return engine, func() {
		for _, c := range closers {
			c()
		}
	}
}

// idempotencyMiddleware returns the handlers to put in front of a POST that
// must not run twice for one Idempotency-Key
func idempotencyMiddleware(cfg config.IdempotencyConfig, store shared.IdempotencyStore, log *zap.Logger) []gin.HandlerFunc {
	if !cfg.Enabled || store == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return []gin.HandlerFunc{middleware.Idempotency(store, ttl, log)}
}
