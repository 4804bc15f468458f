package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	crmapp "github.com/estatecrm/backend/internal/application/crm"
	eventapp "github.com/estatecrm/backend/internal/application/event"
	identityapp "github.com/estatecrm/backend/internal/application/identity"
	inventoryapp "github.com/estatecrm/backend/internal/application/inventory"
	notificationapp "github.com/estatecrm/backend/internal/application/notification"
	salesapp "github.com/estatecrm/backend/internal/application/sales"
	taskapp "github.com/estatecrm/backend/internal/application/task"
	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/infrastructure/auth"
	"github.com/estatecrm/backend/internal/infrastructure/cache"
	"github.com/estatecrm/backend/internal/infrastructure/config"
	"github.com/estatecrm/backend/internal/infrastructure/event"
	"github.com/estatecrm/backend/internal/infrastructure/logger"
	"github.com/estatecrm/backend/internal/infrastructure/notify"
	"github.com/estatecrm/backend/internal/infrastructure/persistence"
	"github.com/estatecrm/backend/internal/infrastructure/scheduler"
	"github.com/estatecrm/backend/internal/infrastructure/telemetry"
	"github.com/estatecrm/backend/internal/interfaces/http/handler"
	"github.com/estatecrm/backend/internal/interfaces/http/middleware"
	"github.com/estatecrm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
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

	log.Info("Starting EstateCRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Ship log output to the OTLP collector when enabled. The bridge core
	// is teed with the stdout core so both sinks see every record.
	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTLP log export", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
			MinLevel:       logger.ParseLevel(cfg.Log.Level),
		})
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
		log.Info("Log export to OTLP collector enabled")
	}

	// Database connection with a GORM logger backed by zap
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
	log.Info("Database connected successfully")

	// Tracing and metrics providers
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Continuous profiling; when both it and tracing run, spans are linked
	// to CPU profiles via pprof labels
	profilerCfg := telemetry.DefaultProfilerConfig()
	profilerCfg.Enabled = cfg.Telemetry.ProfilerEnabled
	profilerCfg.ServerAddress = cfg.Telemetry.ProfilerAddress
	profilerCfg.ApplicationName = cfg.Telemetry.ServiceName
	profiler, err := telemetry.NewProfiler(profilerCfg, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Error("Failed to enable span profiles", zap.Error(err))
		}
	}

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database query tracing
	if cfg.Telemetry.Enabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Error("Failed to register database tracing", zap.Error(err))
		}
	}

	// Token blacklist: Redis when reachable, in-memory otherwise
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.IsProduction() {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected")
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	followUpRepo := persistence.NewGormFollowUpRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Event bus with activity trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(eventapp.NewActivityLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Notification dispatcher
	var sender notify.EmailSender = notify.NopSender{}
	if cfg.Notify.EmailEnabled {
		sender = notify.NewSMTPSender(cfg.Notify)
	}
	dispatcher := notify.NewAsyncDispatcher(notificationRepo, userRepo, sender, cfg.Notify, log)
	dispatcher.Start()
	defer dispatcher.Stop()
	log.Info("Notification dispatcher started",
		zap.Int("workers", cfg.Notify.Workers),
		zap.Int("queue_size", cfg.Notify.QueueSize),
		zap.Bool("email_enabled", cfg.Notify.EmailEnabled),
	)

	// Reminder sweep: flags overdue tasks and reminds assignees about due
	// follow-ups. Dedupe state goes to Redis so restarts do not re-notify.
	var dedupe cache.DedupeStore
	redisDedupe, err := cache.NewRedisDedupeStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory reminder dedupe", zap.Error(err))
		dedupe = cache.NewInMemoryDedupeStore()
	} else {
		dedupe = redisDedupe
	}
	defer func() {
		if err := dedupe.Close(); err != nil {
			log.Error("Error closing reminder dedupe store", zap.Error(err))
		}
	}()

	reminders := scheduler.NewReminderScheduler(
		scheduler.DefaultReminderSchedulerConfig(),
		taskRepo, leadRepo, dispatcher, dedupe, log,
	)
	reminders.Start(context.Background())
	defer reminders.Stop()

	// Pipeline metrics, fed by domain events and periodic snapshots
	if meterProvider.IsEnabled() {
		pipelineMetrics, err := telemetry.NewPipelineMetrics(telemetry.PipelineMetricsConfig{
			Meter:            meterProvider.Meter("estatecrm/pipeline"),
			Logger:           log,
			SnapshotProvider: persistence.NewGormPipelineSnapshotProvider(db.DB),
		})
		if err != nil {
			log.Error("Failed to initialize pipeline metrics", zap.Error(err))
		} else {
			eventBus.Subscribe(eventapp.NewPipelineMetricsHandler(pipelineMetrics))
			dispatcher.SetMetrics(pipelineMetrics)
			pipelineMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
			defer pipelineMetrics.Stop()
		}
	}

	// Application services
	policy := access.NewPolicy()
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	leadService := crmapp.NewLeadService(leadRepo, clientRepo, followUpRepo, userRepo, policy, dispatcher, log)
	clientService := crmapp.NewClientService(clientRepo, userRepo, policy, log)
	propertyService := inventoryapp.NewPropertyService(propertyRepo, log)
	saleService := salesapp.NewSaleService(saleRepo, clientRepo, propertyRepo, userRepo, policy, dispatcher, log)
	taskService := taskapp.NewTaskService(taskRepo, leadRepo, clientRepo, saleRepo, userRepo, policy, dispatcher, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)

	// Inject the event bus into services that publish domain events
	userService.SetEventPublisher(eventBus)
	leadService.SetEventPublisher(eventBus)
	clientService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)
	taskService.SetEventPublisher(eventBus)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	leadHandler := handler.NewLeadHandler(leadService)
	clientHandler := handler.NewClientHandler(clientService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	saleHandler := handler.NewSaleHandler(saleService)
	taskHandler := handler.NewTaskHandler(taskService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	systemHandler := handler.NewSystemHandler()

	// Gin engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware chain: request ID first so every later stage can log it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitRequests > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled && tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       meterProvider.IsEnabled(),
	}))

	// Health check outside API versioning
	engine.GET("/health", healthHandler(db, log))

	// Versioned API with JWT authentication
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))
	r.Use(middleware.TracingAttributeInjector())

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.POST("/logout-all", authHandler.LogoutAll)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.POST("/change-password", authHandler.ChangePassword)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.POST("", userHandler.Register)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)

	leadRoutes := router.NewDomainGroup("leads", "/leads")
	leadRoutes.POST("", leadHandler.Create)
	leadRoutes.GET("", leadHandler.List)
	leadRoutes.GET("/summary", leadHandler.StatusSummary)
	leadRoutes.POST("/bulk-assign", leadHandler.BulkAssign)
	leadRoutes.GET("/:id", leadHandler.GetByID)
	leadRoutes.PUT("/:id", leadHandler.Update)
	leadRoutes.DELETE("/:id", leadHandler.Delete)
	leadRoutes.PATCH("/:id/score", leadHandler.UpdateScore)
	leadRoutes.POST("/:id/lost", leadHandler.MarkLost)
	leadRoutes.POST("/:id/convert", leadHandler.Convert)
	leadRoutes.POST("/:id/assign", leadHandler.Assign)
	leadRoutes.POST("/:id/follow-ups", leadHandler.ScheduleFollowUp)
	leadRoutes.GET("/:id/follow-ups", leadHandler.ListFollowUps)

	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)
	clientRoutes.POST("/:id/verify", clientHandler.Verify)
	clientRoutes.POST("/:id/unverify", clientHandler.Unverify)
	clientRoutes.PUT("/:id/credit-limit", clientHandler.SetCreditLimit)
	clientRoutes.POST("/:id/assign", clientHandler.Assign)

	propertyRoutes := router.NewDomainGroup("properties", "/properties")
	propertyRoutes.POST("", propertyHandler.Create)
	propertyRoutes.GET("", propertyHandler.List)
	propertyRoutes.GET("/code/:code", propertyHandler.GetByCode)
	propertyRoutes.GET("/:id", propertyHandler.GetByID)
	propertyRoutes.PUT("/:id", propertyHandler.Update)
	propertyRoutes.POST("/:id/withdraw", propertyHandler.Withdraw)
	propertyRoutes.POST("/:id/relist", propertyHandler.Relist)

	saleRoutes := router.NewDomainGroup("sales", "/sales")
	saleRoutes.POST("", saleHandler.Create)
	saleRoutes.GET("", saleHandler.List)
	saleRoutes.GET("/summary", saleHandler.StatusSummary)
	saleRoutes.GET("/:id", saleHandler.GetByID)
	saleRoutes.PUT("/:id", saleHandler.Update)
	saleRoutes.DELETE("/:id", saleHandler.Delete)
	saleRoutes.POST("/:id/approve", saleHandler.Approve)
	saleRoutes.POST("/:id/complete", saleHandler.Complete)
	saleRoutes.POST("/:id/cancel", saleHandler.Cancel)
	saleRoutes.POST("/:id/assign", saleHandler.Assign)

	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.POST("", taskHandler.Create)
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.GET("/overdue", taskHandler.GetOverdue)
	taskRoutes.POST("/bulk-assign", taskHandler.BulkAssign)
	taskRoutes.GET("/:id", taskHandler.GetByID)
	taskRoutes.PUT("/:id", taskHandler.Update)
	taskRoutes.DELETE("/:id", taskHandler.Delete)
	taskRoutes.POST("/:id/assign", taskHandler.Assign)
	taskRoutes.POST("/:id/start", taskHandler.Start)
	taskRoutes.POST("/:id/complete", taskHandler.Complete)
	taskRoutes.POST("/:id/cancel", taskHandler.Cancel)

	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(leadRoutes).
		Register(clientRoutes).
		Register(propertyRoutes).
		Register(saleRoutes).
		Register(taskRoutes).
		Register(notificationRoutes).
		Register(systemRoutes)

	r.Setup()

	// HTTP server
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

// healthHandler reports liveness and database reachability
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
