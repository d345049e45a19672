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
	_ "github.com/storefront/backend/docs"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	notificationapp "github.com/storefront/backend/internal/application/notification"
	trackingapp "github.com/storefront/backend/internal/application/tracking"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/messaging/kafka"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/realtime"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const lowStockSampleInterval = 5 * time.Minute

//	@title			Storefront API
//	@version		1.0
//	@description	Grocery storefront: catalog, checkout, order tracking and live notifications.

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.ISO8601Millis,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry is started with the bootstrap logger; once log export is up
	// the logger is rebuilt to tee into it.
	serviceName := cfg.Telemetry.ServiceName
	tel, err := telemetry.Start(ctx, telemetry.Settings{
		Endpoint: telemetry.Endpoint{
			Address:     cfg.Telemetry.CollectorEndpoint,
			Insecure:    cfg.Telemetry.Insecure,
			ServiceName: serviceName,
		},
		Tracing:         cfg.Telemetry.Enabled,
		SamplingRatio:   cfg.Telemetry.SamplingRatio,
		Metrics:         cfg.Telemetry.MetricsEnabled,
		MetricsInterval: cfg.Telemetry.MetricsInterval,
		Logs:            cfg.Telemetry.LogExportEnabled,
		Profiling: telemetry.ProfilerConfig{
			Enabled:       cfg.Profiling.Enabled,
			ServerAddress: cfg.Profiling.ServerAddress,
		},
		SpanProfiles: cfg.Profiling.SpanProfiles,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if tel.Logs.IsEnabled() {
		log, err = logger.New(logCfg, tel.LogCore(zapcore.InfoLevel))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	metrics, err := telemetry.NewStorefrontMetrics(tel.Meter.Meter("storefront"), log)
	if err != nil {
		log.Warn("Storefront metrics disabled", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.Open(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbSystem := "postgresql"
	if db.Driver == persistence.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	itemRepo := persistence.NewGormItemRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	idempotencyStore, err := cache.OpenIdempotencyStore(ctx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Push fan-out: live subscribers first, then the optional broker mirror
	registry := realtime.NewRegistry(log,
		realtime.WithBufferSize(cfg.Realtime.BufferSize),
		realtime.WithMaxClients(cfg.Realtime.MaxClients),
		realtime.WithDropObserver(func(eventName string) {
			metrics.RecordDropped(context.Background(), eventName)
		}),
	)
	defer registry.Close()
	publishers := notificationapp.FanOut{realtime.NewHub(registry, metrics, log)}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := kafka.NewPublisher(cfg.Kafka, log)
		if err != nil {
			log.Fatal("Failed to create Kafka publisher", zap.Error(err))
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Error closing Kafka publisher", zap.Error(err))
			}
		}()
		publishers = append(publishers, kafkaPublisher)
		log.Info("Mirroring notifications to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	notificationService := notificationapp.NewService(notificationRepo, publishers, log)

	eventBus := event.NewInMemoryEventBus(log)
	orderEvents := notificationapp.NewOrderEventHandler(notificationService, log)
	lowStock := checkoutapp.NewLowStockHandler(metrics, log)
	eventBus.Subscribe(orderEvents)
	eventBus.Subscribe(lowStock)
	log.Info("Event handlers registered",
		zap.Strings("order_events", orderEvents.EventTypes()),
		zap.Strings("low_stock_events", lowStock.EventTypes()),
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	checkoutService := checkoutapp.NewService(txScope, orderRepo, eventBus, log,
		checkoutapp.WithIdempotency(idempotencyStore, cfg.Redis.IdempotencyTTL),
		checkoutapp.WithMetrics(metrics),
	)
	itemService := catalogapp.NewItemService(itemRepo, log)
	trackingQuery := trackingapp.NewQueryService(orderRepo)

	trackingEngine := trackingapp.NewEngine(txScope, orderRepo, eventBus, log,
		trackingapp.WithBatchSize(cfg.Tracking.BatchSize),
		trackingapp.WithMetrics(metrics),
	)
	trackingScheduler := scheduler.NewIntervalScheduler(trackingEngine, log, scheduler.IntervalSchedulerConfig{
		Name:     "tracking",
		Enabled:  cfg.Tracking.Enabled,
		Interval: cfg.Tracking.Interval,
	})
	if err := trackingScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start tracking scheduler", zap.Error(err))
	}
	defer func() {
		if err := trackingScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping tracking scheduler", zap.Error(err))
		}
	}()

	metrics.StartLowStockCollection(ctx, itemRepo, lowStockSampleInterval)
	defer metrics.Stop()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// RequestID runs first so the logger, recovery and spans all see it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: serviceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: tel.Meter,
		ServiceName:   serviceName,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = tel.Profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profilingConfig))

	systemHandler := handler.NewSystemHandler(db, registry, version)
	engine.GET("/health", systemHandler.Health)
	if cfg.HTTP.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var checkoutLimiter *middleware.RateLimiter
	if cfg.HTTP.CheckoutRateLimit > 0 {
		checkoutLimiter = middleware.NewRateLimiter(cfg.HTTP.CheckoutRateLimit, cfg.HTTP.CheckoutRateWindow)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.StorefrontResources(router.Handlers{
		Orders:        handler.NewOrderHandler(checkoutService, trackingQuery),
		Notifications: handler.NewNotificationHandler(notificationService),
		Items:         handler.NewItemHandler(itemService),
		Stream:        handler.NewStreamHandler(registry, log, handler.WithHeartbeat(cfg.Realtime.HeartbeatInterval)),
		System:        systemHandler,
		CheckoutLimit: middleware.RateLimit(checkoutLimiter),
	})...)
	r.Setup()

	// WriteTimeout is left to config: a non-zero value cuts event streams
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

	// Open streams never finish on their own; closing the registry ends them
	// so Shutdown can drain.
	registry.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
