package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jafrydeep2/offmarket-sub000/internal/auth"
	"github.com/jafrydeep2/offmarket-sub000/internal/config"
	"github.com/jafrydeep2/offmarket-sub000/internal/handlers"
	"github.com/jafrydeep2/offmarket-sub000/internal/logger"
	"github.com/jafrydeep2/offmarket-sub000/internal/middleware"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/pkg/email"
	"github.com/jafrydeep2/offmarket-sub000/internal/pkg/redislock"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/routes"
	"github.com/jafrydeep2/offmarket-sub000/internal/services"
	"github.com/jafrydeep2/offmarket-sub000/internal/validator"
	"github.com/jafrydeep2/offmarket-sub000/internal/workers"
)

// coordinationStore is what the engine needs from Redis: the sweep lease
// and the dedup cool-down keyspace.
type coordinationStore interface {
	services.DedupStore
	workers.LeaseStore
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Alert{},
		&models.Notification{},
	); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, workers and routes onto a
// gin engine. ctx bounds the background workers.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	store := connectCoordinationStore(cfg)
	emailSender := buildEmailSender(cfg)

	serviceContainer := initializeServices(cfg, gormDB, store, emailSender)
	appHandlers := initializeHandlers(serviceContainer)

	userRepo := repositories.NewUserRepository(gormDB)
	expiryWorker := workers.NewExpiryWorker(
		userRepo,
		serviceContainer.NotificationService,
		store,
		time.Duration(cfg.Sweeper.IntervalHours)*time.Hour,
		time.Duration(cfg.Sweeper.LeaseSeconds)*time.Second,
	)
	expiryWorker.Start(ctx)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

// connectCoordinationStore dials Redis, falling back to the in-process
// store when it is unreachable. The fallback loses cross-instance
// guarantees but keeps a single instance fully functional.
func connectCoordinationStore(cfg *config.Config) coordinationStore {
	client, err := redislock.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, using in-process coordination store")
		return redislock.NewMemoryStore()
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	return redislock.NewStore(client, "offmarket")
}

func buildEmailSender(cfg *config.Config) email.Sender {
	emailCfg := email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		UseTLS:       cfg.Email.UseTLS,
		Timeout:      cfg.Email.TimeoutSecs,
		TemplatePath: cfg.Email.TemplatesDir,
	}

	sender, err := email.NewSMTPSender(emailCfg)
	if err != nil {
		logger.WithError(err).Warn("Email sender disabled, in-app notifications only")
		return nil
	}
	return sender
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, store coordinationStore, emailSender email.Sender) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	propertyRepo := repositories.NewPropertyRepository(gormDB)
	alertRepo := repositories.NewAlertRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	authService := services.NewAuthService(userRepo)
	alertService := services.NewAlertService(alertRepo)
	matchingService := services.NewMatchingService()
	notificationService := services.NewNotificationService(
		notificationRepo,
		userRepo,
		emailSender,
		store,
		time.Duration(cfg.Sweeper.DedupWindowHours)*time.Hour,
		cfg.Email.BaseURL,
	)
	fanoutService := services.NewFanoutService(alertRepo, userRepo, matchingService, notificationService, cfg.Fanout.Workers)
	propertyService := services.NewPropertyService(propertyRepo, fanoutService, notificationService)
	analyticsService := services.NewAnalyticsService(notificationRepo, propertyRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		AlertService:        alertService,
		PropertyService:     propertyService,
		MatchingService:     matchingService,
		NotificationService: notificationService,
		FanoutService:       fanoutService,
		AnalyticsService:    analyticsService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		AlertHandler:        handlers.NewAlertHandler(baseHandler, services.AlertService),
		PropertyHandler:     handlers.NewPropertyHandler(baseHandler, services.PropertyService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		AnalyticsHandler:    handlers.NewAnalyticsHandler(baseHandler, services.AnalyticsService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials not configured. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsActive:     true,
		Preferences:  models.DefaultNotificationPreferences(),
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
