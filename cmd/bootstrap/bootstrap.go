package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-optical-clinic/config"
	deliveryHttp "go-optical-clinic/internal/delivery/http"
	"go-optical-clinic/internal/delivery/http/handler"
	"go-optical-clinic/internal/delivery/http/middleware"
	"go-optical-clinic/internal/infrastructure/cache"
	"go-optical-clinic/internal/infrastructure/database"
	"go-optical-clinic/internal/repository"
	"go-optical-clinic/internal/service"
	"go-optical-clinic/internal/usecase"
	"go-optical-clinic/pkg/jwt"
	"go-optical-clinic/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Apply pending schema migrations
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	patientRepo := repository.NewPatientRepository()
	productRepo := repository.NewProductRepository()
	paymentMethodRepo := repository.NewPaymentMethodRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	discountRepo := repository.NewDiscountRequestRepository()
	quoteRepo := repository.NewQuoteRepository()
	orderRepo := repository.NewOrderRepository()
	saleRepo := repository.NewSaleRepository()
	laboratoryRepo := repository.NewLaboratoryRepository()
	labOrderRepo := repository.NewLaboratoryOrderRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize domain services
	auditService := service.NewAuditService(log, auditLogRepo)
	pricingService := service.NewPricingService(log, discountRepo)
	billingService := service.NewBillingService(log, orderRepo, appointmentRepo)
	labOrderService := service.NewLabOrderService(log, laboratoryRepo, labOrderRepo, orderRepo)
	sequenceService := service.NewSequenceService(log, redisClient)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, jwtService, redisClient)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo)
	productUsecase := usecase.NewProductUsecase(db, log, productRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, userRepo, auditService)
	discountUsecase := usecase.NewDiscountUsecase(db, log, discountRepo, productRepo, patientRepo, pricingService, auditService)
	quoteUsecase := usecase.NewQuoteUsecase(db, log, quoteRepo, orderRepo, patientRepo, productRepo, pricingService, sequenceService, auditService)
	orderUsecase := usecase.NewOrderUsecase(db, log, orderRepo, patientRepo, productRepo, pricingService, sequenceService, auditService)
	saleUsecase := usecase.NewSaleUsecase(db, log, saleRepo, orderRepo, appointmentRepo, patientRepo, paymentMethodRepo, billingService, labOrderService, sequenceService, auditService)
	laboratoryUsecase := usecase.NewLaboratoryUsecase(db, log, laboratoryRepo, labOrderRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	productHandler := handler.NewProductHandler(productUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	discountHandler := handler.NewDiscountHandler(discountUsecase, customValidator)
	quoteHandler := handler.NewQuoteHandler(quoteUsecase, customValidator)
	orderHandler := handler.NewOrderHandler(orderUsecase, customValidator)
	saleHandler := handler.NewSaleHandler(saleUsecase, customValidator)
	laboratoryHandler := handler.NewLaboratoryHandler(laboratoryUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		productHandler,
		appointmentHandler,
		discountHandler,
		quoteHandler,
		orderHandler,
		saleHandler,
		laboratoryHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
