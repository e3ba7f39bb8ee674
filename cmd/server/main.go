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
	invoiceapp "github.com/invoicing/backend/internal/application/invoice"
	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/infrastructure/cache"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/migration"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
	"github.com/invoicing/backend/internal/infrastructure/printing"
	"github.com/invoicing/backend/internal/infrastructure/storage"
	"github.com/invoicing/backend/internal/infrastructure/telemetry"
	"github.com/invoicing/backend/internal/interfaces/http/handler"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
	"github.com/invoicing/backend/internal/interfaces/http/router"
	"github.com/invoicing/backend/migrations"
	"go.uber.org/zap"

	_ "github.com/invoicing/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Invoicing API
//	@version		1.0
//	@description	Invoice records with per-year sequential numbering

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, telemetry.Settings{
		ServiceName:       cfg.Telemetry.ServiceName,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		Traces:            cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Metrics:           cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		Logs:              cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	// OTLP log bridge: rebuild the logger so every entry is also exported
	if providers.LogsEnabled() {
		if log, err = logger.New(logCfg, providers.LogCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoicing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		providers.EnableSpanProfiles()
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// Counter lock timeouts are reported to callers as contention, not logged as failures
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithExpectedErrors(persistence.IsContentionError),
	)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("dialect", db.Dialect()))

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	if err := migrateSchema(db, cfg, log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	if cfg.Telemetry.DBTraceEnabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		tracingCfg.Enabled = true
		if cfg.Telemetry.DBSlowQueryThresh > 0 {
			tracingCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		}
		if db.Dialect() == persistence.DriverSQLite {
			tracingCfg.DBSystem = "sqlite"
		}
		if err := telemetry.NewDBTracingPlugin(tracingCfg, log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	meter := providers.Meter("invoicing")
	var invoiceMetrics *telemetry.InvoiceMetrics
	if providers.MetricsEnabled() {
		dbMetrics, err := telemetry.NewDBMetrics(meter, sqlDB, telemetry.DBMetricsConfig{
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		defer func() { _ = dbMetrics.Unregister() }()
		if err := db.DB.Use(dbMetrics.Plugin()); err != nil {
			log.Fatal("Failed to install database metrics", zap.Error(err))
		}
		if invoiceMetrics, err = telemetry.NewInvoiceMetrics(meter); err != nil {
			log.Fatal("Failed to register invoice metrics", zap.Error(err))
		}
	}

	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, cfg.Invoice.LockTimeout)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	opts := []invoiceapp.Option{
		invoiceapp.WithIdempotency(idempotencyStore, cfg.Redis.IdempotencyTTL),
		invoiceapp.WithMetrics(invoiceMetrics),
		invoiceapp.WithLogger(log),
	}

	if cfg.Printing.Enabled {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      os.Geteuid() == 0,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to start PDF renderer", zap.Error(err))
		}
		paper, _ := printing.ParsePaperSize(cfg.Printing.PaperSize)
		printer := printing.NewInvoicePrinter(printing.NewTemplateEngine(), renderer, printing.PrinterOptions{
			PaperSize: paper,
			MarginMM:  cfg.Printing.MarginMM,
			Timeout:   cfg.Printing.RenderTimeout,
		})
		defer func() {
			if err := printer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		opts = append(opts, invoiceapp.WithRenderer(printer))
		log.Info("PDF export enabled", zap.String("paper_size", string(paper)))
	}

	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create object storage", zap.Error(err))
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", objectStorage.Bucket()))
		}
		opts = append(opts, invoiceapp.WithStorage(objectStorage))
		log.Info("PDF storage enabled", zap.String("bucket", objectStorage.Bucket()))
	}

	invoiceService := invoiceapp.NewService(invoiceRepo, invoiceRepo, opts...)

	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	currencyHandler := handler.NewCurrencyHandler(invoiceService)
	healthHandler := handler.NewHealthHandler(sqlDB, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span, then request_id on it
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics and profiling labels
	// 6. Security headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if providers.MetricsEnabled() {
		engine.Use(middleware.HTTPMetrics(meter))
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", healthHandler.Check)
	engine.GET("/api/v1/health", healthHandler.Check)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.DatabaseGuard(sqlDB, middleware.DefaultDBPingTimeout))

	access := router.Access{}
	if cfg.Auth.Enabled {
		jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.Auth))
		jwtConfig.Logger = log
		r.Use(middleware.JWTAuth(jwtConfig))
		access = router.ScopedAccess()
		log.Info("Bearer token authentication enabled", zap.String("issuer", cfg.Auth.Issuer))
	}

	r.Register(router.InvoiceRoutes(invoiceHandler, access)).
		Register(router.CurrencyRoutes(currencyHandler, access))
	r.Setup()

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// migrateSchema prepares the schema when auto_migrate is set. SQLite uses
// GORM's AutoMigrate; PostgreSQL applies the embedded SQL migrations.
func migrateSchema(db *persistence.Database, cfg *config.Config, log *zap.Logger) error {
	if db.Dialect() == persistence.DriverSQLite {
		return db.AutoMigrate()
	}
	if !cfg.Database.AutoMigrate {
		return nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return m.Up()
}
