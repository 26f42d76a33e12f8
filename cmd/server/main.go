package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/utilibill/backend/internal/application/billing"
	"github.com/utilibill/backend/internal/infrastructure/auth"
	"github.com/utilibill/backend/internal/infrastructure/cache"
	"github.com/utilibill/backend/internal/infrastructure/config"
	"github.com/utilibill/backend/internal/infrastructure/logger"
	"github.com/utilibill/backend/internal/infrastructure/persistence"
	"github.com/utilibill/backend/internal/interfaces/http/handler"
	"github.com/utilibill/backend/internal/interfaces/http/middleware"
	"github.com/utilibill/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting bill reconciliation backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
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

	// Initialize repositories
	billRepo := persistence.NewGormBillRepository(db.DB)
	approvalLogRepo := persistence.NewGormApprovalLogRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	rechargeRepo := persistence.NewGormRechargeRepository(db.DB)

	// Cart storage: Redis when enabled, in-process fallback otherwise
	cartStore := cache.NewCartStore(cfg.Redis, cfg.Cart.TTL, log)

	// Initialize application services
	clock := appbilling.SystemClock{}
	approvalService := appbilling.NewApprovalService(billRepo, approvalLogRepo, clock)
	payableService := appbilling.NewPayableService(billRepo, clock)
	cartService := appbilling.NewCartService(cartStore, billRepo, rechargeRepo)
	batchService := appbilling.NewBatchService(batchRepo, billRepo, cartService, clock)

	// Operator identity
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	billHandler := handler.NewBillHandler(approvalService, payableService)
	cartHandler := handler.NewCartHandler(cartService)
	batchHandler := handler.NewBatchHandler(batchService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request id first, then panic recovery, request
	// logging, and finally operator identity resolution.
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning, no operator identity
	// so orchestrator probes can reach it unauthenticated)
	engine.GET("/health", healthHandler(db))

	// Header-based operator identity is a development convenience only
	allowHeaderFallback := cfg.App.Env != "production"
	engine.Use(middleware.OperatorIdentity(jwtService, allowHeaderFallback))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(billHandler).
		Register(cartHandler).
		Register(batchHandler)
	r.Setup()

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
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
