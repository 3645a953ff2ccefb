package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appevent "github.com/retailops/backend/internal/application/event"
	financeapp "github.com/retailops/backend/internal/application/finance"
	inventoryapp "github.com/retailops/backend/internal/application/inventory"
	"github.com/retailops/backend/internal/application/notification"
	partnerapp "github.com/retailops/backend/internal/application/partner"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/cache"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/event"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/persistence"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
	"github.com/retailops/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting RetailOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database query tracing (if enabled)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracingPlugin := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Database tracing enabled")
	}

	// Optional Redis client, shared by the availability cache and the
	// idempotency store
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories
	stockBatchRepo := persistence.NewGormStockBatchRepository(db.DB)
	stockChangeRepo := persistence.NewGormStockChangeRepository(db.DB)
	stockTransferRepo := persistence.NewGormStockTransferRepository(db.DB)
	replenishmentRepo := persistence.NewGormReplenishmentRepository(db.DB)
	supplierDebtRepo := persistence.NewGormSupplierDebtRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Catalog read models backing item and shop validation
	productReader := persistence.NewGormProductReader(db.DB)
	materialReader := persistence.NewGormMaterialReader(db.DB)
	shopReader := persistence.NewGormShopReader(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Outbox publisher persists domain events transactionally with the
	// stock mutations that raised them
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Transaction scope: batch reads, ledger writes and outbox rows commit
	// or roll back together
	txScope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)

	// Initialize application services
	strategies := inventory.NewConsumptionStrategyFactory()
	stockService := inventoryapp.NewStockService(stockBatchRepo, stockChangeRepo, txScope, strategies)
	stockService.SetCatalogReaders(productReader, materialReader)
	transferService := inventoryapp.NewTransferService(stockTransferRepo, txScope, strategies)
	replenishmentService := inventoryapp.NewReplenishmentService(replenishmentRepo, txScope, shopReader)
	debtService := partnerapp.NewDebtService(supplierDebtRepo)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// Availability cache (if Redis is enabled)
	if redisClient != nil {
		availabilityCache := cache.NewRedisAvailabilityCache(redisClient, log, cfg.Cache.AvailabilityTTL)
		stockService.SetAvailabilityCache(availabilityCache)
		transferService.SetAvailabilityCache(availabilityCache)
		log.Info("Availability cache enabled", zap.Duration("ttl", cfg.Cache.AvailabilityTTL))
	}

	// Idempotency store used by event handlers with side effects
	var idempotencyStore shared.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "retailops:idem:")
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Batch adjustments billable to a supplier -> debt ledger entries
	debtAdjustmentHandler := partnerapp.NewDebtAdjustmentHandler(log, debtService).
		WithIdempotencyStore(idempotencyStore)
	eventBus.Subscribe(debtAdjustmentHandler)

	// Stock depletion and damage -> operator notifications
	inventoryNotificationHandler := notification.NewInventoryEventHandler(log, notification.NewLoggingNotifier(log))
	eventBus.Subscribe(inventoryNotificationHandler)

	// Material restocks with known cost -> finance expense entries.
	// Wrapped so outbox redeliveries never book an expense twice.
	expenseHandler := event.NewIdempotentHandler(financeapp.NewExpenseHandler(log), idempotencyStore, log)
	eventBus.Subscribe(expenseHandler)

	log.Info("Event handlers registered",
		zap.Strings("debt_adjustment_events", debtAdjustmentHandler.EventTypes()),
		zap.Strings("notification_events", inventoryNotificationHandler.EventTypes()),
		zap.Strings("expense_events", expenseHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers persisted events to the bus with retries
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  time.Hour,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Initialize HTTP handlers
	stockHandler := handler.NewStockHandler(stockService)
	transferHandler := handler.NewTransferHandler(transferService)
	replenishmentHandler := handler.NewReplenishmentHandler(replenishmentService)
	debtHandler := handler.NewDebtHandler(debtService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. Tenant - Resolve tenant identity
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
	}

	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Tenant resolution. Outside production a request without tenant
	// identity falls back to the development tenant in the handlers.
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Required = cfg.App.Env == "production"
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Inventory domain (batches, consumption, transfers, replenishments)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")

	// Stock batch routes
	inventoryRoutes.POST("/batches", stockHandler.CreateBatch)
	inventoryRoutes.POST("/batches/restock", stockHandler.Restock)
	inventoryRoutes.GET("/batches", stockHandler.ListBatches)
	inventoryRoutes.GET("/batches/:id", stockHandler.GetBatch)
	inventoryRoutes.PUT("/batches/:id/adjust", stockHandler.AdjustBatch)
	inventoryRoutes.DELETE("/batches/:id", stockHandler.DeleteBatch)

	// Stock operations
	inventoryRoutes.POST("/stock/consume", stockHandler.Consume)
	inventoryRoutes.GET("/stock/availability", stockHandler.GetAvailability)

	// Stock change ledger (read-only audit trail)
	inventoryRoutes.GET("/changes", stockHandler.ListChanges)

	// Transfer routes
	inventoryRoutes.POST("/transfers", transferHandler.Transfer)
	inventoryRoutes.GET("/transfers", transferHandler.ListTransfers)
	inventoryRoutes.GET("/transfers/:id", transferHandler.GetTransfer)

	// Replenishment request routes
	inventoryRoutes.POST("/replenishments", replenishmentHandler.Create)
	inventoryRoutes.GET("/replenishments", replenishmentHandler.List)
	inventoryRoutes.GET("/replenishments/:id", replenishmentHandler.Get)
	inventoryRoutes.POST("/replenishments/:id/approve", replenishmentHandler.Approve)
	inventoryRoutes.POST("/replenishments/:id/reject", replenishmentHandler.Reject)
	inventoryRoutes.POST("/replenishments/:id/fulfill", replenishmentHandler.Fulfill)

	// Partner domain (supplier debt ledger)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.GET("/suppliers/:supplier_id/debt", debtHandler.GetDebt)
	partnerRoutes.POST("/suppliers/:supplier_id/debt", debtHandler.AddDebt)
	partnerRoutes.POST("/suppliers/:supplier_id/debt/refunds", debtHandler.AddRefund)
	partnerRoutes.DELETE("/suppliers/:supplier_id/debt/entries/:entry_id", debtHandler.RemoveEntry)

	// System domain (info, ping, outbox administration)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead-letter", outboxHandler.GetDeadLetterEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	systemRoutes.POST("/outbox/retry-all", outboxHandler.RetryAllDeadEntries)

	r.Register(inventoryRoutes).
		Register(partnerRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
