package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/milkroute/backend/internal/application/billing"
	deliveryapp "github.com/milkroute/backend/internal/application/delivery"
	partnerapp "github.com/milkroute/backend/internal/application/partner"
	"github.com/milkroute/backend/internal/infrastructure/config"
	"github.com/milkroute/backend/internal/infrastructure/logger"
	"github.com/milkroute/backend/internal/infrastructure/persistence"
	"github.com/milkroute/backend/internal/infrastructure/scheduler"
	"github.com/milkroute/backend/internal/interfaces/http/handler"
	"github.com/milkroute/backend/internal/interfaces/http/middleware"
	"github.com/milkroute/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

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
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting milkroute backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(time.Duration(cfg.Database.SlowQueryMillis)*time.Millisecond))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	creditTxRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	recordRepo := persistence.NewGormDailyRecordRepository(db.DB)
	adjustmentRepo := persistence.NewGormQuantityAdjustmentRepository(db.DB)
	holidayRepo := persistence.NewGormHolidayRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	holidayOracle := persistence.NewDbHolidayOracle(holidayRepo)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	recordService := deliveryapp.NewRecordService(customerRepo, recordRepo, adjustmentRepo, holidayOracle, log)
	adjustmentService := deliveryapp.NewAdjustmentService(customerRepo, adjustmentRepo, log)
	holidayService := deliveryapp.NewHolidayService(holidayRepo, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, recordRepo, customerRepo, creditTxRepo, txManager, log)
	creditService := billingapp.NewCreditService(customerRepo, creditTxRepo, invoiceRepo, txManager, log)

	// Scheduler
	var cron *scheduler.CronScheduler
	if cfg.Scheduler.Enabled {
		recordJob, err := scheduler.NewDailyRecordJob(cfg.Scheduler.RecordCronSchedule, recordService)
		if err != nil {
			log.Fatal("Invalid record cron schedule", zap.Error(err))
		}
		overdueJob, err := scheduler.NewOverdueSweepJob(cfg.Billing.OverdueCronSchedule, invoiceService)
		if err != nil {
			log.Fatal("Invalid overdue cron schedule", zap.Error(err))
		}

		cron = scheduler.NewCronScheduler(scheduler.Config{
			Enabled:       cfg.Scheduler.Enabled,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, scheduler.NewJobLogRepository(db.DB), log, recordJob, overdueJob)

		if err := cron.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := cron.Stop(ctx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.String("record_schedule", cfg.Scheduler.RecordCronSchedule),
			zap.String("overdue_schedule", cfg.Billing.OverdueCronSchedule),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	engine.GET("/health", healthHandler(db, log))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewCreditHandler(creditService)).
		Register(handler.NewRecordHandler(recordService)).
		Register(handler.NewAdjustmentHandler(adjustmentService)).
		Register(handler.NewHolidayHandler(holidayService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewSystemHandler(version, cron)).
		Setup()

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

// healthHandler reports liveness of the service and its database
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
