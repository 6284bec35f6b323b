package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow-backend/internal/auth"
	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/config"
	"orderflow-backend/internal/database"
	"orderflow-backend/internal/db"
	"orderflow-backend/internal/handlers"
	"orderflow-backend/internal/health"
	h "orderflow-backend/internal/http"
	"orderflow-backend/internal/mail"
	"orderflow-backend/internal/middleware"
	"orderflow-backend/internal/monitoring"
	"orderflow-backend/internal/repositories"
	"orderflow-backend/internal/services"
	"orderflow-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional. Without it every read hits Postgres directly.
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (running without cache)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	var mailer mail.Mailer
	if cfg.Mail.APIURL != "" {
		mailer = mail.NewHTTPMailer(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.FromAddress, cfg.Mail.FromName)
	} else {
		log.Println("[Mail] No mail API configured, reminder emails will be logged only")
		mailer = mail.NewMockMailer()
	}

	var storageClient *storage.Client
	if cfg.Storage.Bucket != "" {
		client, err := storage.New(cfg)
		if err != nil {
			log.Printf("[Storage] Object storage unavailable: %v", err)
		} else {
			storageClient = client
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)
	storeRepo := repositories.NewStoreRepository(pool)
	prospectRepo := repositories.NewProspectRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	containerRepo := repositories.NewContainerRepository(pool)
	reminderRepo := repositories.NewReminderRepository(pool)
	analyticsRepo := repositories.NewAnalyticsRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, loginLogRepo, jwtManager)
	storeService := services.NewStoreService(storeRepo)
	prospectService := services.NewProspectService(prospectRepo, storeRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, storeRepo)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo)
	containerService := services.NewContainerService(containerRepo, productRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo)
	documentService := services.NewDocumentService(orderRepo, storeRepo, cfg.Company.Name, cfg.Company.Address)
	exportService := services.NewExportService(orderRepo, productRepo)
	reminderService := services.NewReminderService(
		reminderRepo, mailer, cfg.Reminder.RunHour, cfg.Reminder.EarlyDays, cfg.Reminder.OverdueStride)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	storeHandler := handlers.NewStoreHandler(storeService)
	prospectHandler := handlers.NewProspectHandler(prospectService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	containerHandler := handlers.NewContainerHandler(containerService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	documentHandler := handlers.NewDocumentHandler(documentService, exportService)
	uploadHandler := handlers.NewUploadHandler(storageClient)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler,
		userHandler,
		storeHandler,
		prospectHandler,
		categoryHandler,
		productHandler,
		orderHandler,
		paymentHandler,
		containerHandler,
		analyticsHandler,
		reminderHandler,
		documentHandler,
		uploadHandler,
		healthHandler,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		middleware.RequestLogging(
			middleware.MetricsMiddleware(
				corsMiddleware(router))))

	// Background jobs
	metricsCollector := services.NewMetricsCollector(pool)
	metricsCollector.Start()
	defer metricsCollector.Stop()

	if cfg.Reminder.Enabled {
		reminderService.Start()
		defer reminderService.Stop()
	}

	if cfg.Monitoring.Enabled {
		go monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port).Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server running on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
