package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	budgetapp "github.com/butcetakip/backend/internal/application/budget"
	dashboardapp "github.com/butcetakip/backend/internal/application/dashboard"
	identityapp "github.com/butcetakip/backend/internal/application/identity"
	ioapp "github.com/butcetakip/backend/internal/application/importexport"
	viewsapp "github.com/butcetakip/backend/internal/application/views"
	warrantyapp "github.com/butcetakip/backend/internal/application/warranty"
	"github.com/butcetakip/backend/internal/infrastructure/auth"
	"github.com/butcetakip/backend/internal/infrastructure/cache"
	"github.com/butcetakip/backend/internal/infrastructure/config"
	"github.com/butcetakip/backend/internal/infrastructure/logger"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/infrastructure/telemetry"
	"github.com/butcetakip/backend/internal/interfaces/http/handler"
	"github.com/butcetakip/backend/internal/interfaces/http/middleware"
	"github.com/butcetakip/backend/internal/interfaces/http/router"
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
		_ = log.Sync()
	}()

	log.Info("Starting budget backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry providers; no-ops when disabled
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
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
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database with zap-backed GORM logging
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

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	itemRepo := persistence.NewGormBudgetItemRepository(db.DB)
	scenarioRepo := persistence.NewGormScenarioRepository(db.DB)
	planRepo := persistence.NewGormPlanEntryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	statusRepo := persistence.NewGormPurchaseFormStatusRepository(db.DB)
	warrantyRepo := persistence.NewGormWarrantyItemRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	viewRepo := persistence.NewGormSavedViewRepository(db.DB)
	backupStore := persistence.NewBackupStore(db.DB)

	// Dashboard cache: Redis when configured, in-process otherwise
	dashboardCache := cache.NewDashboardCache(cfg.Redis, log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	itemService := budgetapp.NewBudgetItemService(itemRepo)
	scenarioService := budgetapp.NewScenarioService(scenarioRepo)
	planService := budgetapp.NewPlanService(planRepo, itemRepo, scenarioRepo, dashboardCache)
	expenseService := budgetapp.NewExpenseService(expenseRepo, itemRepo, dashboardCache)
	reminderService := budgetapp.NewPurchaseReminderService(planRepo, expenseRepo, statusRepo)
	dashboardService := dashboardapp.NewDashboardService(planRepo, expenseRepo, itemRepo, dashboardCache)
	warrantyService := warrantyapp.NewWarrantyService(warrantyRepo)
	viewService := viewsapp.NewViewService(viewRepo)
	importService := ioapp.NewImportService(itemRepo, scenarioRepo, planRepo, expenseRepo, dashboardCache)
	exportService := ioapp.NewExportService(itemRepo, planRepo, expenseRepo)
	backupService := ioapp.NewBackupService(backupStore)

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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		window := cfg.HTTP.RateLimitWindow
		if window <= 0 {
			window = time.Second
		}
		rate := float64(cfg.HTTP.RateLimitRequests) / window.Seconds()
		rateLimiter := middleware.NewRateLimiter(rate, cfg.HTTP.RateLimitRequests)
		engine.Use(rateLimiter.Middleware())
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", window),
		)
	}

	// Health check lives outside the API group and skips authentication
	systemHandler := handler.NewSystemHandler(db.DB)
	systemHandler.RegisterHealthRoute(engine)

	engine.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		Service: jwtService,
		SkipPaths: []string{
			"/healthz",
			cfg.HTTP.BasePath + "/auth/token",
		},
	}))

	r := router.New(engine, cfg.HTTP.BasePath)
	r.Register(
		handler.NewAuthHandler(authService),
		handler.NewBudgetItemHandler(itemService),
		handler.NewScenarioHandler(scenarioService),
		handler.NewPlanHandler(planService),
		handler.NewExpenseHandler(expenseService),
		handler.NewPurchaseReminderHandler(reminderService),
		handler.NewDashboardHandler(dashboardService),
		handler.NewWarrantyHandler(warrantyService),
		handler.NewViewHandler(viewService),
		handler.NewIOHandler(importService, exportService),
		handler.NewBackupHandler(backupService),
	)
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
