package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stepup/stepup-backend/config"
	"github.com/stepup/stepup-backend/internal/app/controller"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/db"
	"github.com/stepup/stepup-backend/internal/middleware"
	"github.com/stepup/stepup-backend/internal/router"
	"github.com/stepup/stepup-backend/internal/scheduler"
	"github.com/stepup/stepup-backend/internal/storage"
	"github.com/stepup/stepup-backend/pkg/logger"
	"github.com/stepup/stepup-backend/pkg/mailer"
	redisclient "github.com/stepup/stepup-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting StepUp Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	gormDB, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.SeedAdmin(gormDB, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token blacklist is optional
	var revoker service.TokenRevoker
	var blacklist middleware.TokenChecker
	if cfg.Redis.Enabled() {
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, logout will not revoke tokens", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer client.Close()
			tokens := redisclient.NewTokenBlacklist(client)
			revoker = tokens
			blacklist = tokens
		}
	} else {
		logger.Info("REDIS_HOST not set, token blacklist disabled")
	}

	images := storage.New(&cfg.Storage)
	mail := mailer.New(cfg.Mail.PostmarkToken, cfg.Mail.Sender)
	tokens := service.TokenConfig{Secret: cfg.JWT.Secret, Expiry: cfg.JWT.TokenExpiry}

	// Initialize repositories
	tm := repository.NewTransactionManager(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	personRepo := repository.NewDeliveryPersonRepository(gormDB)
	managerRepo := repository.NewDeliveryManagerRepository(gormDB)
	detailRepo := repository.NewDeliveryDetailRepository(gormDB)
	refundRepo := repository.NewRefundRepository(gormDB)
	attendanceRepo := repository.NewAttendanceRepository(gormDB)
	leaveRepo := repository.NewLeaveRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, revoker)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, userRepo)
	orderService := service.NewOrderService(tm, orderRepo, userRepo)
	workflow := service.NewOrderWorkflow(tm, orderRepo, detailRepo)
	personService := service.NewDeliveryPersonService(personRepo, orderRepo, tokens)
	managerService := service.NewDeliveryManagerService(managerRepo, orderRepo, tokens)
	refundService := service.NewRefundService(tm, refundRepo, orderRepo, images, mail, cfg.Storage.MaxImages)
	reportService := service.NewReportService(detailRepo)
	employeeService := service.NewEmployeeService(userRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeService)
	leaveService := service.NewLeaveService(leaveRepo)

	// Initialize controllers
	controllers := router.Controllers{
		Auth:            controller.NewAuthController(authService),
		Product:         controller.NewProductController(productService),
		Cart:            controller.NewCartController(cartService),
		Review:          controller.NewReviewController(reviewService),
		Order:           controller.NewOrderController(orderService, workflow),
		Employee:        controller.NewEmployeeController(employeeService),
		Attendance:      controller.NewAttendanceController(attendanceService),
		Leave:           controller.NewLeaveController(leaveService),
		DeliveryPerson:  controller.NewDeliveryPersonController(personService, workflow),
		DeliveryManager: controller.NewDeliveryManagerController(managerService, personService, orderService, workflow, reportService),
		Refund:          controller.NewRefundController(refundService, cfg.Storage.MaxImages),
	}

	if err := middleware.InitMetrics(nil); err != nil {
		logger.Fatal("Failed to register metrics", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	reports := scheduler.NewReportScheduler(reportService, cfg.Reports.Dir, cfg.Reports.Schedule)
	if err := reports.Start(); err != nil {
		logger.Warn("Report scheduler disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer reports.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
