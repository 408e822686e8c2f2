package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/leasegrow/leasegrow-api/docs" // Swagger docs
	"github.com/leasegrow/leasegrow-api/internal/config"
	"github.com/leasegrow/leasegrow-api/internal/database"
	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/handlers"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/middleware"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/internal/services"
	"github.com/leasegrow/leasegrow-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title LeaseGrow API
// @version 1.0
// @description REST API for the LeaseGrow equipment leasing marketplace
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize event hub
	hub := events.NewHub()

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, hub)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, hub)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Equipment catalog (read-only)
			protected.GET("/equipment", h.Equipment.Index)
			protected.GET("/equipment/:equipment_id", h.Equipment.Show)

			// Lease requests
			requests := protected.Group("/lease_requests")
			{
				requests.GET("", h.LeaseRequest.Index)
				requests.POST("", h.LeaseRequest.Create)
				requests.GET("/:request_id", h.LeaseRequest.Show)
				requests.POST("/:request_id/cancel", h.LeaseRequest.Cancel)

				// Chat thread
				requests.GET("/:request_id/messages", h.Chat.RequestMessages)
				requests.POST("/:request_id/messages", h.Chat.PostRequestMessage)
				requests.GET("/:request_id/events", h.Chat.StreamRequestEvents)
			}

			// Contracts
			contracts := protected.Group("/contracts")
			{
				contracts.GET("", h.Contract.Index)
				contracts.GET("/:contract_id", h.Contract.Show)
				contracts.GET("/:contract_id/payments", h.Contract.Payments)
				contracts.POST("/:contract_id/sign", h.Contract.Sign)
			}

			// Payment recording; the service checks the actor owns the
			// contract or is privileged
			payments := protected.Group("/payments")
			{
				payments.POST("/:payment_id/record", h.Payment.Record)
				payments.POST("/outside_schedule", h.Payment.RecordOutsideSchedule)
			}

			// Maintenance requests
			maintenance := protected.Group("/maintenance_requests")
			{
				maintenance.GET("", h.Maintenance.Index)
				maintenance.POST("", h.Maintenance.Create)
				maintenance.GET("/:request_id", h.Maintenance.Show)

				// Chat thread
				maintenance.GET("/:request_id/messages", h.Chat.MaintenanceMessages)
				maintenance.POST("/:request_id/messages", h.Chat.PostMaintenanceMessage)
				maintenance.GET("/:request_id/events", h.Chat.StreamMaintenanceEvents)
			}

			// Notifications
			// Static routes first so "read_all" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.GET("/unread_count", h.Notification.UnreadCount)
				notifications.POST("/read_all", h.Notification.MarkAllRead)
				notifications.POST("/:notification_id/read", h.Notification.MarkRead)
			}

			// Manager-only routes
			manager := protected.Group("")
			manager.Use(middleware.RequireManager())
			{
				// Lease request decisions
				manager.POST("/lease_requests/:request_id/confirm", h.LeaseRequest.Confirm)
				manager.POST("/lease_requests/:request_id/reject", h.LeaseRequest.Reject)

				// Contract lifecycle
				manager.POST("/contracts", h.Contract.Create)
				manager.POST("/contracts/:contract_id/complete", h.Contract.Complete)
				manager.POST("/contracts/:contract_id/terminate", h.Contract.Terminate)

				// Maintenance lifecycle and service log
				manager.POST("/maintenance_requests/:request_id/start", h.Maintenance.Start)
				manager.POST("/maintenance_requests/:request_id/complete", h.Maintenance.Complete)
				manager.POST("/maintenance_requests/:request_id/cancel", h.Maintenance.Cancel)
				manager.GET("/equipment/:equipment_id/service_log", h.Equipment.ServiceLog)
				manager.POST("/maintenance_log", h.Maintenance.RecordLogEntry)

				// Statistics
				manager.GET("/statistics", h.Statistics.Overview)
				manager.GET("/statistics/export", h.Statistics.Export)
			}
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	conf := cors.DefaultConfig()
	conf.AllowHeaders = append(conf.AllowHeaders, "Authorization")
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = allowedOrigins
	}
	return conf
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Sweep overdue payments on the configured interval
	worker.ScheduleEvery(time.Duration(cfg.OverdueSweepMinutes)*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue payments...")
		return svcs.Payment.CheckOverduePayments(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
